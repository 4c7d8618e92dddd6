// hub.go
// One hub per room. The hub goroutine is the only owner of the member set;
// members talk to it through the register, unregister and broadcast channels.
// A hub lives while at least one connection holds it; see Server.acquire.

package roomserver

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type hub struct {
	room       string
	members    map[*member]bool
	broadcast  chan []byte
	register   chan *member
	unregister chan *member
	count      atomic.Int32
	logger     zerolog.Logger

	// Guarded by Server.mu.
	refs   int
	cancel context.CancelFunc
}

func newHub(room string, logger zerolog.Logger) *hub {
	return &hub{
		room:       room,
		members:    make(map[*member]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *member),
		unregister: make(chan *member),
		logger:     logger.With().Str("room", room).Logger(),
	}
}

func (h *hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for m := range h.members {
				close(m.send)
				delete(h.members, m)
			}
			h.count.Store(0)
			return

		case m := <-h.register:
			h.members[m] = true
			h.count.Store(int32(len(h.members)))
			h.logger.Info().Str("member_id", m.id).Str("user", m.name).Msg("member joined")
			h.send([]byte(m.name+" joined"), m)

		case m := <-h.unregister:
			if _, ok := h.members[m]; ok {
				close(m.send)
				delete(h.members, m)
				h.count.Store(int32(len(h.members)))
				h.logger.Info().Str("member_id", m.id).Str("user", m.name).Msg("member left")
				h.send([]byte(m.name+" left"), nil)
			}

		case message := <-h.broadcast:
			h.send(message, nil)
		}
	}
}

// send delivers to every member except ignore. A member whose buffer is full
// is dropped.
func (h *hub) send(message []byte, ignore *member) {
	for m := range h.members {
		if m == ignore {
			continue
		}
		select {
		case m.send <- message:
		default:
			h.logger.Warn().Str("member_id", m.id).Msg("send buffer full, dropping member")
			close(m.send)
			delete(h.members, m)
		}
	}
	h.count.Store(int32(len(h.members)))
}
