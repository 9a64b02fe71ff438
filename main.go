package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"SketchBoard/internal/config"
	"SketchBoard/internal/engine"
	sharenet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
	"SketchBoard/internal/ui"
)

func main() {
	bg := flag.String("bg", "", "background image: file path, http(s) URL or data URL")
	data := flag.String("data", "", "JSON drawing to open")
	viewOnly := flag.Bool("view", false, "open the drawing read-only")
	discover := flag.Duration("discover", 0, "browse the local network for shared sketches for this long and exit")
	flag.Parse()

	cfg := config.Load()

	if *discover > 0 {
		runDiscover(*discover)
		return
	}
	if link := flag.Arg(0); sharenet.IsShareLink(link) {
		runFollower(cfg, link)
		return
	}
	runHost(cfg, *bg, *data, *viewOnly)
}

func engineOptions(cfg *config.Config) engine.Options {
	style := state.DefaultStyle()
	style.StrokeColor = cfg.Canvas.StrokeColor
	style.StrokeWidth = cfg.Canvas.StrokeWidth
	return engine.Options{
		Style:       &style,
		FontSize:    cfg.Canvas.FontSize,
		SettleDelay: cfg.Canvas.SettleDelay,
	}
}

func runHost(cfg *config.Config, bg, data string, viewOnly bool) {
	log.Println("[HOST] starting")
	opts := engineOptions(cfg)
	opts.ViewOnly = viewOnly
	if bg != "" {
		src, err := engine.SourceFor(bg)
		if err != nil {
			log.Fatalf("[HOST] background: %v", err)
		}
		opts.Background = src
	}
	if data != "" {
		raw, err := os.ReadFile(data)
		if err != nil {
			log.Fatalf("[HOST] read drawing: %v", err)
		}
		objs, err := state.DecodeObjects(raw)
		if err != nil {
			log.Fatalf("[HOST] %s: %v", data, err)
		}
		opts.InitialObjects = objs
	}

	board := ui.NewBoardWidget(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := sharenet.NewHub(cfg.Share.WriteTimeout)
	hub.Broadcast(board.Engine().GetDrawingData())
	board.OnSceneChange = func(objs []state.Object) {
		if err := hub.Broadcast(objs); err != nil {
			log.Printf("[HOST] broadcast: %v", err)
		}
	}
	go func() {
		select {
		case <-board.Engine().BackgroundDone():
		case <-ctx.Done():
			return
		}
		if img := board.Engine().Background(); img != nil {
			if err := hub.SetBackground(img); err != nil {
				log.Printf("[HOST] share background: %v", err)
			}
		}
	}()

	go func() {
		if err := sharenet.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Share.Port), hub); err != nil {
			log.Printf("[HOST] %v", err)
			board.SetStatus("Sharing unavailable: " + err.Error())
		}
	}()
	if cfg.Share.MDNS {
		server, err := sharenet.Advertise(cfg.Share.Port)
		if err != nil {
			log.Printf("[HOST] mdns: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	shareLink := sharenet.ShareLink(sharenet.OutgoingIP(), cfg.Share.Port)
	log.Printf("[HOST] share link %s", shareLink)
	ui.RunApp(cfg, "SketchBoard", shareLink, board)
}

func runFollower(cfg *config.Config, link string) {
	log.Println("[FOLLOWER] starting")
	url, err := sharenet.FollowURL(link)
	if err != nil {
		log.Fatalf("[FOLLOWER] %v", err)
	}
	opts := engineOptions(cfg)
	opts.ViewOnly = true
	board := ui.NewBoardWidget(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		// let the window come up before the first frame arrives
		time.Sleep(500 * time.Millisecond)
		board.SetStatus("Connecting to " + link)
		err := sharenet.Follow(ctx, url, func(msg sharenet.Message) {
			switch msg.Type {
			case sharenet.MsgScene:
				board.Engine().LoadDrawingData(msg.Objects)
				board.SetStatus(fmt.Sprintf("Following %s (%d objects)", link, len(msg.Objects)))
			case sharenet.MsgBackground:
				img, err := engine.DecodeImage(ctx, engine.BytesSource(msg.Image))
				if err != nil {
					log.Printf("[FOLLOWER] background: %v", err)
					return
				}
				board.Engine().SetBackgroundImage(img)
			}
		})
		if err != nil {
			board.SetStatus("Disconnected: " + err.Error())
			return
		}
		board.SetStatus("Session ended")
	}()

	ui.RunApp(cfg, "SketchBoard (following)", "", board)
}

func runDiscover(timeout time.Duration) {
	err := sharenet.Browse(timeout, func(link string) {
		fmt.Println(link)
	})
	if err != nil {
		log.Fatalf("discover: %v", err)
	}
}
