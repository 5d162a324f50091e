package site

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/knadh/koanf/providers/file"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadMessage is sent to every live-reload client.
type reloadMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// Hub tracks live-reload clients.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]*websocket.Conn
	watched []*file.File
}

// NewHub returns an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{log: log, clients: make(map[string]*websocket.Conn)}
}

// ServeHTTP upgrades the request and holds the connection until the
// client goes away. Client messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("livereload: websocket upgrade", zap.Error(err))
		return
	}
	id := uuid.NewString()

	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.log.Debug("livereload: client connected", zap.String("client", id))

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		conn.Close()
		h.log.Debug("livereload: client gone", zap.String("client", id))
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("livereload: websocket read", zap.Error(err))
			}
			return
		}
	}
}

// Broadcast asks every client to reload and returns how many were told.
// Clients that cannot be written to are dropped.
func (h *Hub) Broadcast(reason string) int {
	data, _ := json.Marshal(reloadMessage{Type: "reload", Reason: reason})

	h.mu.Lock()
	defer h.mu.Unlock()
	sent := 0
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("livereload: write", zap.String("client", id), zap.Error(err))
			conn.Close()
			delete(h.clients, id)
			continue
		}
		sent++
	}
	h.log.Info("livereload: broadcast", zap.String("reason", reason), zap.Int("clients", sent))
	return sent
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Watch broadcasts a reload whenever the file at path changes.
func (h *Hub) Watch(path string) error {
	f := file.Provider(path)
	err := f.Watch(func(event interface{}, err error) {
		if err != nil {
			h.log.Warn("livereload: watch", zap.String("path", path), zap.Error(err))
			return
		}
		h.Broadcast(path)
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.watched = append(h.watched, f)
	h.mu.Unlock()
	return nil
}

// Close stops all watches and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, f := range h.watched {
		_ = f.Unwatch()
	}
	h.watched = nil
	for id, conn := range h.clients {
		conn.Close()
		delete(h.clients, id)
	}
}
