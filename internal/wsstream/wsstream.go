// Package wsstream broadcasts progress events to websocket clients.
//
// The [Hub] implements [model.ProgressPublisher] on the publishing
// side and [http.Handler] on the subscribing side. Publishing never
// blocks: clients that cannot keep up with the event stream are
// disconnected. A client connecting while a run is in progress
// immediately receives the most recent event, so late observers see
// the current state instead of a blank screen.
package wsstream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/must"
)

const (
	// sendBufferSize is the per-client event buffer.
	sendBufferSize = 16

	// writeTimeout bounds a single websocket write.
	writeTimeout = 10 * time.Second
)

// Hub fans progress events out to websocket clients. The zero value
// is not usable; construct with [NewHub].
type Hub struct {
	clients   map[*client]bool
	lastEvent []byte
	logger    model.Logger
	mu        sync.Mutex
	upgrader  *websocket.Upgrader
}

var (
	_ model.ProgressPublisher = &Hub{}
	_ http.Handler            = &Hub{}
)

// NewHub creates a [Hub] using the given logger.
func NewHub(logger model.Logger) *Hub {
	return &Hub{
		clients:   make(map[*client]bool),
		lastEvent: nil,
		logger:    model.ValidLoggerOrDefault(logger),
		mu:        sync.Mutex{},
		upgrader: &websocket.Upgrader{
			// the daemon serves the local UI, which may be opened
			// from a file:// origin
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// client is a single connected websocket observer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Publish implements [model.ProgressPublisher].
func (h *Hub) Publish(ev *model.ProgressEvent) {
	data := must.MarshalJSON(ev)
	h.mu.Lock()
	h.lastEvent = data
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.dropLocked(c)
	}
	h.mu.Unlock()
}

// ServeHTTP implements [http.Handler]. It upgrades the request to a
// websocket and streams events until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("wsstream: cannot upgrade connection: %s", err.Error())
		return
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.mu.Lock()
	h.clients[c] = true
	if h.lastEvent != nil {
		c.send <- h.lastEvent
	}
	h.mu.Unlock()
	go h.readLoop(c)
	h.writeLoop(c)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int64(len(h.clients))
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
	return nil
}

// dropLocked unregisters a client and wakes up its write loop. The
// caller must hold the hub mutex.
func (h *Hub) dropLocked(c *client) {
	if _, found := h.clients[c]; found {
		delete(h.clients, c)
		close(c.send)
	}
}

// drop unregisters a client.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

// writeLoop delivers buffered events to a client until its channel
// is closed or a write fails.
func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop consumes and discards client messages so that control
// frames are processed and we notice when the peer disconnects.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}
