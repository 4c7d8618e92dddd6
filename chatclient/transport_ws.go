//go:build !js

// transport_ws.go
// The native transport dials with gorilla/websocket on its own goroutine and
// then runs the read pump on that same goroutine, so handlers are invoked one
// at a time in arrival order. Writes come from callers and are serialized;
// each one carries a deadline, and Close never waits behind a pending write.

package chatclient

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var errNotConnected = errors.New("transport not connected")

const closeGrace = time.Second

type wsDialer struct {
	dialer       *websocket.Dialer
	timeout      time.Duration
	writeTimeout time.Duration
}

// NewWSDialer returns a Dialer backed by gorilla/websocket. handshakeTimeout
// bounds the TCP/TLS connect and HTTP upgrade, writeTimeout bounds each frame
// write. Zero disables either bound.
func NewWSDialer(handshakeTimeout, writeTimeout time.Duration) Dialer {
	return &wsDialer{dialer: websocket.DefaultDialer, timeout: handshakeTimeout, writeTimeout: writeTimeout}
}

func (d *wsDialer) Open(rawURL string) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse url")
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("url has no host")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &wsTransport{
		url:          u.String(),
		dialer:       d.dialer,
		timeout:      d.timeout,
		writeTimeout: d.writeTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

type wsTransport struct {
	url          string
	dialer       *websocket.Dialer
	timeout      time.Duration
	writeTimeout time.Duration
	ctx          context.Context
	cancel       context.CancelFunc

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers Handlers
	bound    bool
	closed   bool

	writeMu sync.Mutex
}

func (t *wsTransport) Bind(h Handlers) func() {
	t.mu.Lock()
	if t.bound {
		t.mu.Unlock()
		return func() {}
	}
	t.bound = true
	t.handlers = h
	t.mu.Unlock()

	go t.run()

	return func() {
		t.mu.Lock()
		t.handlers = Handlers{}
		t.mu.Unlock()
	}
}

func (t *wsTransport) current() Handlers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handlers
}

func (t *wsTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *wsTransport) run() {
	conn, err := t.dial()
	if err != nil {
		if h := t.current().OnError; h != nil {
			h(errors.Wrap(err, "dial"))
		}
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		_ = conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()
	defer conn.Close()

	if h := t.current().OnOpen; h != nil {
		h()
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if t.isClosed() || peerClosed(err) {
				if h := t.current().OnClose; h != nil {
					h()
				}
			} else if h := t.current().OnError; h != nil {
				h(errors.Wrap(err, "read"))
			}
			return
		}
		kind := BinaryFrame
		if messageType == websocket.TextMessage {
			kind = TextFrame
		}
		if h := t.current().OnMessage; h != nil {
			h(Frame{Kind: kind, Data: data})
		}
	}
}

// peerClosed reports whether err is a close handshake started by the peer.
// A connection that drops without one (1006) or fails TLS (1015) is an error,
// the same as a browser firing onerror.
func peerClosed(err error) bool {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		return false
	}
	return closeErr.Code != websocket.CloseAbnormalClosure && closeErr.Code != websocket.CloseTLSHandshake
}

func (t *wsTransport) dial() (*websocket.Conn, error) {
	ctx := t.ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	conn, _, err := t.dialer.DialContext(ctx, t.url, nil)
	return conn, err
}

func (t *wsTransport) SendText(msg string) error {
	t.mu.Lock()
	conn, closed := t.conn, t.closed
	t.mu.Unlock()
	if conn == nil || closed {
		return errNotConnected
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.mu.Unlock()

	t.cancel()
	if conn == nil {
		return nil
	}
	// WriteControl may run alongside a pending WriteMessage. If that write is
	// stalled the close frame gives up at the deadline and closing the socket
	// releases the writer.
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGrace))
	return conn.Close()
}
