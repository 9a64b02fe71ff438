package ui

import (
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// saveAs asks for a destination and hands the open writer to write.
func saveAs(win fyne.Window, name string, exts []string, write func(io.Writer) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if err := write(writer); err != nil {
			log.Printf("[ui] save %s: %v", writer.URI().Path(), err)
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[ui] saved %s", writer.URI().Path())
	}, win)
	fd.SetFileName(name)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	fd.Show()
}

// openFile asks for a source and hands the open reader to read.
func openFile(win fyne.Window, exts []string, read func(io.Reader) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		if err := read(reader); err != nil {
			log.Printf("[ui] open %s: %v", reader.URI().Path(), err)
			dialog.ShowError(err, win)
		}
	}, win)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	fd.Show()
}
