// Package net carries a live annotation session to followers on the LAN: a WebSocket hub on
// the host, a follower client, mDNS discovery and share links.
package net

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"SketchBoard/internal/state"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	MsgScene      = "scene"
	MsgBackground = "background"

	DefaultWriteTimeout = 5 * time.Second
)

// Message is one frame on the wire. Image holds PNG bytes (base64 in JSON).
type Message struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Objects []state.Object `json:"objects,omitempty"`
	Image   []byte         `json:"image,omitempty"`
}

type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(data []byte, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(data, timeout)
}

// write must be called with p.mu held.
func (p *peer) write(data []byte, timeout time.Duration) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is used by the HOST to push its drawing to every connected follower. It serves the
// WebSocket endpoint as an http.Handler.
type Hub struct {
	session      string
	writeTimeout time.Duration
	upgrader     websocket.Upgrader

	mu         sync.RWMutex
	peers      map[*peer]bool
	scene      []byte
	background []byte
}

// NewHub creates a hub with a fresh session id. A zero writeTimeout uses
// DefaultWriteTimeout.
func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Hub{
		session:      uuid.NewString(),
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		peers: make(map[*peer]bool),
	}
}

// Session returns the id stamped on every message of this hub.
func (h *Hub) Session() string {
	return h.session
}

// PeerCount returns the number of connected followers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ServeHTTP upgrades a follower connection and sends it the current background and scene.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[share] upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	p := &peer{conn: conn}

	// p.mu is taken before the peer is visible so a concurrent broadcast cannot overtake
	// the initial state.
	p.mu.Lock()
	h.mu.Lock()
	h.peers[p] = true
	initial := [][]byte{h.background, h.scene}
	h.mu.Unlock()
	log.Printf("[share] follower connected from %s", r.RemoteAddr)

	for _, data := range initial {
		if data == nil {
			continue
		}
		if err := p.write(data, h.writeTimeout); err != nil {
			p.mu.Unlock()
			h.drop(p, err)
			return
		}
	}
	p.mu.Unlock()

	go h.readLoop(p)
}

// readLoop discards anything followers send and notices when they go away.
func (h *Hub) readLoop(p *peer) {
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			h.drop(p, err)
			return
		}
	}
}

func (h *Hub) drop(p *peer, cause error) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	h.mu.Unlock()
	p.conn.Close()
	if ok {
		log.Printf("[share] follower %s removed: %v", p.conn.RemoteAddr(), cause)
	}
}

// Broadcast sends the scene to every follower and keeps it for followers that join later.
func (h *Hub) Broadcast(objects []state.Object) error {
	data, err := json.Marshal(Message{Type: MsgScene, Session: h.session, Objects: objects})
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	h.mu.Lock()
	h.scene = data
	h.mu.Unlock()
	h.sendAll(data)
	return nil
}

// SetBackground sends the background image to every follower as PNG. A nil image is not
// sent.
func (h *Hub) SetBackground(img image.Image) error {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode background: %w", err)
	}
	data, err := json.Marshal(Message{Type: MsgBackground, Session: h.session, Image: buf.Bytes()})
	if err != nil {
		return fmt.Errorf("encode background message: %w", err)
	}
	h.mu.Lock()
	h.background = data
	h.mu.Unlock()
	h.sendAll(data)
	return nil
}

func (h *Hub) sendAll(data []byte) {
	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if err := p.send(data, h.writeTimeout); err != nil {
			h.drop(p, err)
		}
	}
}

// Close disconnects every follower.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[*peer]bool)
	h.mu.Unlock()
	for p := range peers {
		p.mu.Lock()
		p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "host closed"),
			time.Now().Add(h.writeTimeout))
		p.mu.Unlock()
		p.conn.Close()
	}
}

// ListenAndServe serves the hub at WSPath on addr until ctx ends.
func ListenAndServe(ctx context.Context, addr string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(WSPath, hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		hub.Close()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[share] host listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}
