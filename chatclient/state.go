package chatclient

// State is the lifecycle state of a connection.
type State int

const (
	// Connecting means the transport exists but the server has not accepted it yet.
	Connecting State = iota

	// Open means the transport is usable and the join handshake has been sent.
	Open

	// Closed means the connection ended normally after being open.
	Closed

	// Errored means the connection failed. It is terminal like Closed.
	Errored
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s == Closed || s == Errored
}

// canTransition holds the complete transition table.
func canTransition(from, to State) bool {
	switch from {
	case Connecting:
		return to == Open || to == Errored
	case Open:
		return to == Closed || to == Errored
	default:
		return false
	}
}
