package chatclient

// FrameKind is the payload type of an inbound frame.
type FrameKind int

const (
	TextFrame FrameKind = iota + 1
	BinaryFrame
)

func (k FrameKind) String() string {
	switch k {
	case TextFrame:
		return "text"
	case BinaryFrame:
		return "binary"
	default:
		return "unknown"
	}
}

// Frame is one inbound message.
type Frame struct {
	Kind FrameKind
	Data []byte
}

// Handlers are the event callbacks bound to a transport. A transport invokes
// them one at a time, never concurrently.
type Handlers struct {
	OnOpen    func()
	OnMessage func(Frame)
	OnClose   func()
	OnError   func(error)
}

// Transport is the host's WebSocket primitive.
type Transport interface {
	// Bind attaches handlers and returns a function that detaches them.
	// Events that happen after release are dropped. Bind is called once.
	Bind(h Handlers) (release func())

	// SendText writes one text frame.
	SendText(msg string) error

	Close() error
}

// Dialer creates transports. Open must not block on the network: the
// protocol handshake completes later and is reported through OnOpen or
// OnError.
type Dialer interface {
	Open(url string) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(url string) (Transport, error)

func (f DialerFunc) Open(url string) (Transport, error) { return f(url) }
