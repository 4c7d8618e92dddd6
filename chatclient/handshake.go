package chatclient

import "sync/atomic"

// handshake is the join protocol: the username is the first frame on the wire.
// It fires at most once per connection. fire is called with the client's
// send lock held; sent may be read at any time.
type handshake struct {
	username string
	fired    bool
	sent     atomic.Bool
}

// fire sends the username through send the first time it is called. Later
// calls do nothing and report fired=false.
func (h *handshake) fire(send func(string) error) (fired bool, err error) {
	if h.fired {
		return false, nil
	}
	h.fired = true
	if err := send(h.username); err != nil {
		return true, err
	}
	h.sent.Store(true)
	return true, nil
}
