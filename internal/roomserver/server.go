// Package roomserver is a small multi-room chat server speaking the client's
// wire protocol: the first text frame of a connection is the username, later
// text frames are broadcast to the room as "<username>: <text>".
package roomserver

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBuffer         = 32
	defaultJoinTimeout = 10 * time.Second
)

// Server routes /ws/{room} connections to per-room hubs.
type Server struct {
	ctx         context.Context
	upgrader    websocket.Upgrader
	joinTimeout time.Duration
	logger      zerolog.Logger

	mu   sync.Mutex
	hubs map[string]*hub
}

// Option configures a Server.
type Option func(*Server)

// WithJoinTimeout bounds how long a new connection may take to send its
// username frame.
func WithJoinTimeout(d time.Duration) Option {
	return func(s *Server) { s.joinTimeout = d }
}

// WithCheckOrigin replaces the origin check of the upgrader.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// New returns a Server whose hubs stop when ctx is cancelled.
func New(ctx context.Context, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		ctx: ctx,
		upgrader: websocket.Upgrader{
			// Permissive for local development; pass WithCheckOrigin in production.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		joinTimeout: defaultJoinTimeout,
		logger:      logger.With().Str("component", "roomserver").Logger(),
		hubs:        map[string]*hub{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/{room}", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Debug().Err(err).Str("room", room).Msg("upgrade failed")
		return
	}

	h := s.acquire(room)
	id := uuid.NewString()
	m := &member{
		id:     id,
		socket: conn,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
		logger: h.logger.With().Str("member_id", id).Logger(),
	}
	go func() {
		defer s.release(h)
		m.serve(s.ctx, s.joinTimeout)
	}()
}

// acquire returns the hub of room, starting it if needed. Each call is paired
// with a release once the connection's serve loop has returned.
func (s *Server) acquire(room string) *hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[room]
	if !ok {
		ctx, cancel := context.WithCancel(s.ctx)
		h = newHub(room, s.logger)
		h.cancel = cancel
		s.hubs[room] = h
		go h.run(ctx)
	}
	h.refs++
	return h
}

// release drops a reference taken by acquire and stops the hub when it was
// the last one, so rooms do not outlive their connections.
func (s *Server) release(h *hub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.refs--
	if h.refs > 0 {
		return
	}
	delete(s.hubs, h.room)
	h.cancel()
	h.logger.Debug().Msg("room closed")
}

// Rooms lists the rooms that currently have connections.
func (s *Server) Rooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]string, 0, len(s.hubs))
	for room := range s.hubs {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

// Occupancy returns the number of joined members of room.
func (s *Server) Occupancy(room string) int {
	s.mu.Lock()
	h, ok := s.hubs[room]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return int(h.count.Load())
}
