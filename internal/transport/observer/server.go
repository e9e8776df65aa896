// Package observer exposes the headless simulation over HTTP: a bootstrap
// endpoint describing the world, and a websocket feed of per-tick views that
// also accepts scrub commands from the connected client.
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/simulation"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/population"
)

// Bootstrap is the static world description a client needs before it can
// interpret the view stream.
type Bootstrap struct {
	TotalAgents int               `json:"totalAgents"`
	WorldWidth  float64           `json:"worldWidth"`
	WorldHeight float64           `json:"worldHeight"`
	Axes        []population.Axis `json:"axes"`
	ScrubMin    float64           `json:"scrubMin"`
	ScrubMax    float64           `json:"scrubMax"`
	TickRateHz  int               `json:"tickRateHz"`
}

// command is what a client may send on the websocket.
type command struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type client struct {
	conn       *websocket.Conn
	send       chan []byte
	subscribed bool
}

// Server fans the view stream out to websocket clients and funnels their
// scrub commands back to the tick loop.
type Server struct {
	bootstrap Bootstrap
	upgrader  websocket.Upgrader
	l         *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}

	scrub chan float64
}

func NewServer(cfg *simulation.Config, tickRateHz int, l *log.Logger) *Server {
	return &Server{
		bootstrap: Bootstrap{
			TotalAgents: cfg.TotalAgents,
			WorldWidth:  cfg.WorldWidth,
			WorldHeight: cfg.WorldHeight,
			Axes:        cfg.Axes,
			ScrubMin:    cfg.ScrubMin,
			ScrubMax:    cfg.ScrubMax,
			TickRateHz:  tickRateHz,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only world state; cross-origin viewers are fine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		l:       l,
		clients: make(map[*client]struct{}),
		scrub:   make(chan float64, 16),
	}
}

// Scrub delivers the raw scrub coordinates sent by clients. The tick loop
// drains it and feeds the latest value into the engine.
func (s *Server) Scrub() <-chan float64 { return s.scrub }

// Handler returns the HTTP routes: GET /bootstrap and GET /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", s.handleBootstrap)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.bootstrap); err != nil {
		s.l.Printf("observer: encoding bootstrap: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.l.Printf("observer: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.l.Printf("observer: client connected (%d total)", n)

	go s.writePump(c)
	s.readPump(c)
}

// readPump consumes client commands until the connection dies.
func (s *Server) readPump(c *client) {
	defer s.drop(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.l.Printf("observer: bad command: %v", err)
			continue
		}
		switch cmd.Type {
		case "subscribe":
			// The handshake: the first view frames flow only after this,
			// and the client gets the world description as its reply.
			reply, err := json.Marshal(struct {
				Type      string    `json:"type"`
				Bootstrap Bootstrap `json:"bootstrap"`
			}{Type: "subscribed", Bootstrap: s.bootstrap})
			if err != nil {
				s.l.Printf("observer: encoding subscribe reply: %v", err)
				continue
			}
			s.mu.Lock()
			c.subscribed = true
			select {
			case c.send <- reply:
			default:
			}
			s.mu.Unlock()
		case "scrub":
			// Drop the command if the loop is behind; a newer one follows.
			select {
			case s.scrub <- cmd.Value:
			default:
			}
		}
	}
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	n := len(s.clients)
	s.mu.Unlock()
	c.conn.Close()
	s.l.Printf("observer: client disconnected (%d left)", n)
}

// Broadcast sends one view to every connected client. Slow clients lose
// frames rather than stalling the tick loop.
func (s *Server) Broadcast(v *simulation.View) {
	msg, err := json.Marshal(v)
	if err != nil {
		s.l.Printf("observer: encoding view: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if !c.subscribed {
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
		c.conn.Close()
	}
}
