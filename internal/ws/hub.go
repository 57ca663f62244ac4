// Package ws streams a read-only preview of the display over websockets:
// frames on one socket, diagnostics on another. Incoming messages are
// read and discarded.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/blinken/internal/diagnostics"
	"github.com/coreman2200/blinken/internal/fb"
	"github.com/coreman2200/blinken/internal/render"
)

const (
	writeWait   = 200 * time.Millisecond
	sendBuffer  = 16
	diagBacklog = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub mirrors the framebuffer to websocket clients. It implements the
// display sink methods so it can sit beside the real driver in a fan-out.
type Hub struct {
	mu         sync.RWMutex
	f          *fb.Framebuffer
	Driver     string
	brightness uint8

	frame     []byte
	frameID   uint64
	startTime time.Time
	stats     func() render.Stats

	clients     map[*client]bool
	diagClients map[*client]bool
	recent      []diag.Diagnostic
	closed      bool
}

func NewHub(f *fb.Framebuffer, driver string) *Hub {
	return &Hub{
		f:           f,
		Driver:      driver,
		frame:       make([]byte, f.Stride()*f.Height()),
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
}

// SetStats lets the health endpoint report engine counters.
func (h *Hub) SetStats(fn func() render.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = fn
}

func (h *Hub) SetPixel(x, y int, on bool) error { return h.f.SetPixel(x, y, on) }

func (h *Hub) SetBrightness(level uint8) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.brightness = level
	return nil
}

type frameMsg struct {
	Type    string `json:"type"`
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bits    []byte `json:"bits"` // packed rows, MSB first
}

// Present snapshots the framebuffer and queues it for every frame client.
// Slow clients miss frames rather than stall the caller.
func (h *Hub) Present() error {
	h.mu.Lock()
	stride := h.f.Stride()
	for y := 0; y < h.f.Height(); y++ {
		row, err := h.f.Row(y)
		if err != nil {
			h.mu.Unlock()
			return err
		}
		copy(h.frame[y*stride:], row)
	}
	h.frameID++
	msg := frameMsg{
		Type:    "frame",
		T:       time.Now().UnixNano(),
		FrameID: h.frameID,
		Width:   h.f.Width(),
		Height:  h.f.Height(),
		Bits:    h.frame,
	}
	b, err := json.Marshal(msg)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.broadcast(h.clients, b)
	return nil
}

// Push implements diagnostics.Sink.
func (h *Hub) Push(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		log.Debug().Err(err).Msg("marshal diagnostic")
		return
	}
	h.mu.Lock()
	h.recent = append(h.recent, d)
	if len(h.recent) > diagBacklog {
		h.recent = h.recent[len(h.recent)-diagBacklog:]
	}
	h.mu.Unlock()
	h.broadcast(h.diagClients, b)
}

func (h *Hub) broadcast(set map[*client]bool, b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range set {
		select {
		case c.send <- b:
		default:
			log.Debug().Msg("preview client behind, dropping message")
		}
	}
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.serveWS(w, r, h.clients, func() [][]byte {
		top, _ := json.Marshal(map[string]any{
			"type":   "topology",
			"width":  h.f.Width(),
			"height": h.f.Height(),
			"cells":  h.f.Stride(),
			"driver": h.Driver,
		})
		return [][]byte{top}
	})
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.serveWS(w, r, h.diagClients, func() [][]byte {
		out := make([][]byte, 0, len(h.recent))
		for _, d := range h.recent {
			b, _ := json.Marshal(d)
			out = append(out, b)
		}
		return out
	})
}

// serveWS registers the connection in set and queues the greeting under
// the same lock, so nothing broadcast afterwards can overtake it.
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request, set map[*client]bool, greet func() [][]byte) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer+diagBacklog)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	set[c] = true
	for _, b := range greet() {
		c.send <- b
	}
	h.mu.Unlock()

	go h.writePump(c)
	go func() {
		defer h.drop(set, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) writePump(c *client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write preview")
		}
	}
	c.conn.Close()
}

func (h *Hub) drop(set map[*client]bool, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set[c] {
		delete(set, c)
		close(c.send)
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   h.frameID,
		"uptime_s":   time.Since(h.startTime).Seconds(),
		"width":      h.f.Width(),
		"height":     h.f.Height(),
		"brightness": h.brightness,
		"driver":     h.Driver,
		"clients":    len(h.clients) + len(h.diagClients),
	}
	if h.stats != nil {
		s := h.stats()
		resp["cycles"] = s.Cycles
		resp["frames"] = s.Frames
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Handler routes the preview endpoints.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", h.HandleFramesWS)
	mux.HandleFunc("/ws/diag", h.HandleDiagWS)
	mux.HandleFunc("/healthz", h.HandleHealth)
	return mux
}

// Serve listens on addr until ctx ends.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("preview listening")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := srv.Shutdown(sctx)
	if e := <-errc; !errors.Is(e, http.ErrServerClosed) && err == nil {
		err = e
	}
	h.Close()
	return err
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range []map[*client]bool{h.clients, h.diagClients} {
		for c := range set {
			delete(set, c)
			close(c.send)
		}
	}
	return nil
}
