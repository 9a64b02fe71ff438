package ui

import (
	"SketchBoard/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RunApp opens the main window around board and blocks until it is closed. The toolbar is
// left out in view-only mode; a non-empty shareLink is shown under the canvas.
func RunApp(cfg *config.Config, title, shareLink string, board *BoardWidget) {
	myApp := app.New()
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	var toolbar fyne.CanvasObject
	if !board.Engine().ViewOnly() {
		toolbar = NewToolbar(board, myWindow)
	}

	bottom := container.NewHBox(board.StatusBar())
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		link.Disable()
		bottom.Add(widget.NewLabel("Share:"))
		bottom.Add(link)
		bottom.Add(widget.NewButton("Copy", func() {
			myWindow.Clipboard().SetContent(shareLink)
			board.SetStatus("Share link copied")
		}))
	}

	content := container.NewBorder(toolbar, bottom, nil, nil, board)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}
