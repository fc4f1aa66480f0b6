package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// RefreshEvent is pushed to every connected websocket client when a new
// snapshot replaces the current one.
type RefreshEvent struct {
	Event    string    `json:"event"`
	LoadedAt time.Time `json:"loaded_at"`
}

const writeTimeout = 5 * time.Second

// Hub tracks connected websocket clients and fans refresh events out to
// them. Clients are connect-and-listen only; inbound messages are read
// and discarded to service control frames.
type Hub struct {
	log zerolog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:   log.With().Str("component", "ws").Logger(),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends the event to every connected client. Clients that
// fail the write are dropped; a stuck dashboard tab must not stall the
// refresh loop.
func (h *Hub) Broadcast(ev RefreshEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Debug().Err(err).Msg("dropping websocket client")
			h.remove(conn)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWS upgrades the connection and parks it in the hub until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.add(conn)

	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
