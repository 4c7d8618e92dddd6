// member.go
// The serving goroutine reads the join frame, registers with the hub and then
// becomes the read pump. A second goroutine drains the member's send channel
// back to the socket. Separating read/write avoids head-of-line blocking when
// a client is slow.

package roomserver

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type member struct {
	id     string
	name   string
	socket *websocket.Conn
	send   chan []byte
	hub    *hub
	logger zerolog.Logger
}

func (m *member) serve(ctx context.Context, joinTimeout time.Duration) {
	defer m.socket.Close()

	if joinTimeout > 0 {
		_ = m.socket.SetReadDeadline(time.Now().Add(joinTimeout))
	}
	messageType, name, err := m.socket.ReadMessage()
	if err != nil {
		m.logger.Debug().Err(err).Msg("no join frame")
		return
	}
	if messageType != websocket.TextMessage || len(name) == 0 {
		m.logger.Warn().Msg("join frame must be a non-empty text frame")
		_ = m.socket.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected username"),
			time.Now().Add(time.Second))
		return
	}
	_ = m.socket.SetReadDeadline(time.Time{})
	m.name = string(name)
	m.logger = m.logger.With().Str("user", m.name).Logger()

	select {
	case m.hub.register <- m:
	case <-ctx.Done():
		return
	}

	go m.write()
	m.read(ctx)
}

func (m *member) read(ctx context.Context) {
	for {
		messageType, message, err := m.socket.ReadMessage()
		if err != nil {
			m.logger.Debug().Err(err).Msg("read pump stopped")
			select {
			case m.hub.unregister <- m:
			case <-ctx.Done():
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case m.hub.broadcast <- []byte(m.name + ": " + string(message)):
		case <-ctx.Done():
			return
		}
	}
}

func (m *member) write() {
	defer m.socket.Close()

	for message := range m.send {
		if err := m.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			m.logger.Debug().Err(err).Msg("write failed")
			// Keep draining so the hub never blocks on this member.
			continue
		}
	}
	_ = m.socket.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
