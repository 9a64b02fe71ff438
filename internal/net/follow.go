package net

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	// LinkScheme prefixes share links handed to followers.
	LinkScheme = "sketchboard://"
	// WSPath is where the hub is mounted.
	WSPath = "/ws"
)

// ShareLink returns the link a follower opens to join a host at ip:port.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, ip, port)
}

// IsShareLink reports whether arg is a share link rather than a file argument.
func IsShareLink(arg string) bool {
	return strings.HasPrefix(arg, LinkScheme)
}

// FollowURL converts a share link into the hub's WebSocket URL.
func FollowURL(link string) (string, error) {
	if !IsShareLink(link) {
		return "", fmt.Errorf("not a share link: %q", link)
	}
	address := strings.TrimPrefix(link, LinkScheme)
	address = strings.TrimSuffix(address, "/")
	if address == "" || strings.ContainsAny(address, "/?#") {
		return "", fmt.Errorf("malformed share link: %q", link)
	}
	return "ws://" + address + WSPath, nil
}

// Follow connects to a hub and passes every message to handle until ctx ends or the
// connection drops. A cancelled context is not an error.
func Follow(ctx context.Context, url string, handle func(Message)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer conn.Close()
	log.Printf("[share] following %s", url)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[share] host closed the session")
				return nil
			}
			return fmt.Errorf("read from host: %w", err)
		}
		handle(msg)
	}
}
