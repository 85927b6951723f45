package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/milk9111/arena/common"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

var ErrHubClosed = errors.New("stream: hub closed")

type client struct {
	id      uuid.UUID
	conn    *safeWriter
	send    chan []byte
	dropped atomic.Uint64
}

// Hub fans snapshots out to spectator websockets. Publish never blocks: a
// client whose buffer is full misses that frame.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	latest  []byte
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uuid.UUID]*client),
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes s and queues it for every client.
func (h *Hub) Publish(s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.latest = data
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			if c.dropped.Add(1) == 1 || common.Debug {
				log.Printf("stream: client=%s slow, dropping frame tick=%d", c.id, s.Tick)
			}
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams snapshots until the peer goes
// away or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade: %v", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: newSafeWriter(conn),
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = c.conn.CloseWith(websocket.CloseGoingAway, "shutting down")
		return
	}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Printf("stream: client=%s connected from %s", c.id, r.RemoteAddr)

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(c, done)

	h.remove(c.id)
	_ = c.conn.CloseWith(websocket.CloseNormalClosure, "")
	log.Printf("stream: client=%s disconnected", c.id)
}

// readPump discards inbound frames; it exists to notice the peer closing.
func (h *Hub) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if common.Debug {
					log.Printf("stream: client=%s write: %v", c.id, err)
				}
				return
			}
		}
	}
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

// Close disconnects every client and rejects further publishes.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.CloseWith(websocket.CloseGoingAway, "shutting down")
	}
}

// ListenAndServe serves the hub on addr at /ws until ctx is done.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", h)

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("stream: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
