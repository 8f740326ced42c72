package server

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// message is what websocket clients receive: "init" once per screen on connect, then
// "update" every time a screen changes.
type message struct {
	Type   string `json:"type"`
	Screen string `json:"screen"`
	Data   any    `json:"data"`
}

// hub owns every websocket write. Changes only mark a screen dirty; the model is rendered
// on the hub goroutine right before it is written, so the last write of a screen always
// carries its latest state.
type hub struct {
	log     zerolog.Logger
	screens []string
	render  func(screen string) any

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool

	dirtyMu sync.Mutex
	dirty   map[string]bool
	wake    chan struct{}
	join    chan *websocket.Conn
	done    chan struct{}
}

func newHub(logger zerolog.Logger, screens []string, render func(screen string) any) *hub {
	return &hub{
		log:     logger,
		screens: screens,
		render:  render,
		clients: make(map[*websocket.Conn]bool),
		dirty:   make(map[string]bool),
		wake:    make(chan struct{}, 1),
		join:    make(chan *websocket.Conn),
		done:    make(chan struct{}),
	}
}

// publish marks screen as changed. Repeated changes before the next send collapse into one.
func (h *hub) publish(screen string) {
	h.dirtyMu.Lock()
	h.dirty[screen] = true
	h.dirtyMu.Unlock()
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// take returns the dirty screens in name order and clears the set.
func (h *hub) take() []string {
	h.dirtyMu.Lock()
	defer h.dirtyMu.Unlock()
	names := make([]string, 0, len(h.dirty))
	for name := range h.dirty {
		names = append(names, name)
	}
	clear(h.dirty)
	slices.Sort(names)
	return names
}

func (h *hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case conn := <-h.join:
			h.greet(conn)
		case <-h.wake:
			for _, name := range h.take() {
				h.send(message{Type: "update", Screen: name, Data: h.render(name)})
			}
		}
	}
}

// greet writes the current model of every screen to a new connection, then registers it.
// Both happen on the hub goroutine, so no update can fall between them.
func (h *hub) greet(conn *websocket.Conn) {
	for _, name := range h.screens {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(message{Type: "init", Screen: name, Data: h.render(name)}); err != nil {
			h.log.Debug().Err(err).Msg("websocket init failed")
			conn.Close()
			return
		}
	}
	h.clientsMu.Lock()
	h.clients[conn] = true
	h.clientsMu.Unlock()
}

func (h *hub) send(msg message) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug().Err(err).Msg("websocket write failed")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
	conn.Close()
}

func (h *hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	select {
	case s.hub.join <- conn:
	case <-s.hub.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}
	defer s.hub.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
