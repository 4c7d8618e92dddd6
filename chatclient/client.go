package chatclient

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"realtime-chat-client/dom"
)

// Client is a single connection to a chat room. Its state only moves along
// Connecting→Open, Connecting→Errored, Open→Closed and Open→Errored.
//
// Transport events are handled one at a time; Send, Close and the accessors
// are safe to call from any goroutine.
type Client struct {
	id   uuid.UUID
	url  string
	room string

	// sendMu orders frames: the join handshake, then user sends. It is held
	// across writes, mu never is, so Close and State do not wait on the wire.
	sendMu    sync.Mutex
	handshake handshake

	mu        sync.Mutex
	state     State
	transport Transport
	done      chan struct{}

	registry *Registry
	renderer *Renderer
	onError  func(error)
	onState  func(from, to State)
	logger   zerolog.Logger
}

// Option configures Connect.
type Option func(*options)

type options struct {
	config   Config
	dialer   Dialer
	registry *Registry
	document dom.Document
	onError  func(error)
	onState  func(from, to State)
	logger   *zerolog.Logger
}

func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithDocument sets the document holding the render target.
func WithDocument(doc dom.Document) Option {
	return func(o *options) { o.document = doc }
}

// WithErrorHandler receives faults raised while handling transport events:
// a failed join handshake, a missing render target, transport errors.
// It is called on the event goroutine and must not block.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithStateHandler observes every state transition.
func WithStateHandler(fn func(from, to State)) Option {
	return func(o *options) { o.onState = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// Connect opens a transport to the room and binds the connection handlers
// before returning. The join handshake is sent when the transport opens.
// A transport that cannot be created yields a *ConnectError.
func Connect(roomID, username string, opts ...Option) (*Client, error) {
	o := options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	url := o.config.RoomURL(roomID)
	if err := o.config.Validate(); err != nil {
		return nil, &ConnectError{URL: url, Err: err}
	}
	if o.dialer == nil {
		o.dialer = defaultDialer(o.config)
	}
	if o.registry == nil {
		o.registry = defaultRegistry
	}
	if o.document == nil {
		o.document = defaultDocument()
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}

	t, err := o.dialer.Open(url)
	if err != nil {
		return nil, &ConnectError{URL: url, Err: err}
	}

	c := &Client{
		id:        uuid.New(),
		url:       url,
		room:      roomID,
		state:     Connecting,
		transport: t,
		handshake: handshake{username: username},
		done:      make(chan struct{}),
		registry:  o.registry,
		renderer:  NewRenderer(o.document, o.config),
		onError:   o.onError,
		onState:   o.onState,
	}
	c.logger = logger.With().
		Str("component", "chatclient").
		Str("conn_id", c.id.String()).
		Str("room", roomID).
		Logger()

	err = c.registry.Register(c.id, url, t, Handlers{
		OnOpen:    c.handleOpen,
		OnMessage: c.handleMessage,
		OnClose:   c.handleClose,
		OnError:   c.handleError,
	})
	if err != nil {
		_ = t.Close()
		return nil, &ConnectError{URL: url, Err: err}
	}
	c.logger.Debug().Str("url", url).Msg("connecting")
	return c, nil
}

func (c *Client) ID() uuid.UUID { return c.id }

func (c *Client) URL() string { return c.url }

func (c *Client) Room() string { return c.room }

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandshakeSent reports whether the username frame was written.
func (c *Client) HandshakeSent() bool {
	return c.handshake.sent.Load()
}

// Done is closed when the connection reaches Closed or Errored.
func (c *Client) Done() <-chan struct{} { return c.done }

// Send writes message as a text frame. It fails with a *SendError wrapping
// ErrNotOpen unless the connection is open. A write the peer does not drain
// is bounded by the transport; Close interrupts it.
func (c *Client) Send(message string) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if state := c.State(); state != Open {
		return &SendError{State: state, Err: ErrNotOpen}
	}
	if err := c.transport.SendText(message); err != nil {
		return &SendError{State: Open, Err: errors.Wrap(err, "write text frame")}
	}
	return nil
}

// Close closes the transport. An open connection becomes Closed, a
// connecting one becomes Errored with ErrAborted. Closing a finished
// connection is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	to := Closed
	if c.state == Connecting {
		to = Errored
	}
	old, ok := c.transitionLocked(to)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	c.registry.Unregister(c.id)
	err := c.transport.Close()
	if to == Errored {
		c.logger.Debug().Err(ErrAborted).Msg("closed before open")
	}
	c.notifyState(old, to)
	return errors.Wrap(err, "close transport")
}

// transitionLocked moves to the target state if the transition table allows
// it. c.mu must be held.
func (c *Client) transitionLocked(to State) (State, bool) {
	old := c.state
	if !canTransition(old, to) {
		return old, false
	}
	c.state = to
	if to.Terminal() {
		close(c.done)
	}
	c.logger.Debug().Stringer("from", old).Stringer("to", to).Msg("state transition")
	return old, true
}

func (c *Client) handleOpen() {
	// Send takes sendMu before checking the state, so no user frame can go
	// out between the transition to Open and the handshake.
	c.sendMu.Lock()
	c.mu.Lock()
	old, ok := c.transitionLocked(Open)
	c.mu.Unlock()
	if !ok {
		c.sendMu.Unlock()
		c.logger.Debug().Msg("ignoring open event")
		return
	}
	fired, err := c.handshake.fire(c.transport.SendText)
	c.sendMu.Unlock()
	c.notifyState(old, Open)
	if !fired || err == nil {
		return
	}

	c.mu.Lock()
	_, ok = c.transitionLocked(Errored)
	c.mu.Unlock()
	if !ok {
		// Closed while the handshake was being written.
		c.logger.Debug().Err(err).Msg("join handshake interrupted")
		return
	}
	c.terminate(Open, Errored, &SendError{State: Open, Err: errors.Wrap(err, "join handshake")})
}

func (c *Client) handleMessage(f Frame) {
	if c.State() != Open {
		return
	}
	if f.Kind != TextFrame {
		c.logger.Debug().Stringer("kind", f.Kind).Int("bytes", len(f.Data)).Msg("dropping non-text frame")
		return
	}
	if err := c.renderer.Render(string(f.Data)); err != nil {
		c.report(errors.Wrap(err, "render message"))
	}
}

func (c *Client) handleClose() {
	c.mu.Lock()
	to, cause := Closed, error(nil)
	if c.state == Connecting {
		to, cause = Errored, ErrAborted
	}
	old, ok := c.transitionLocked(to)
	c.mu.Unlock()
	if !ok {
		return
	}
	c.terminate(old, to, cause)
}

func (c *Client) handleError(err error) {
	c.mu.Lock()
	old, ok := c.transitionLocked(Errored)
	c.mu.Unlock()
	if !ok {
		c.logger.Debug().Err(err).Msg("transport error after terminal state")
		return
	}
	c.terminate(old, Errored, err)
}

// terminate runs after a terminal transition made by an event handler.
func (c *Client) terminate(old, to State, cause error) {
	c.registry.Unregister(c.id)
	if err := c.transport.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("close transport")
	}
	if cause != nil {
		c.report(cause)
	}
	c.notifyState(old, to)
}

func (c *Client) report(err error) {
	c.logger.Warn().Err(err).Msg("connection fault")
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Client) notifyState(from, to State) {
	if c.onState != nil {
		c.onState(from, to)
	}
}
