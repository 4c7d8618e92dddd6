package chatclient

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotOpen indicates a send attempted while the connection is not open.
	ErrNotOpen = errors.New("connection not open")

	// ErrRenderTargetMissing indicates the render container was not found.
	ErrRenderTargetMissing = errors.New("render target missing")

	// ErrAborted indicates the connection was closed locally before it opened.
	ErrAborted = errors.New("connection closed before open")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedScheme indicates a target URL that is not ws:// or wss://.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

// ConnectError is returned by Connect when the transport cannot be created.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SendError is returned by Send, and reported for a failed handshake.
// Err is ErrNotOpen when the connection state forbade the send, otherwise the
// transport's write error.
type SendError struct {
	State State
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send in state %s: %v", e.State, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
