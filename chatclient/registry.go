// registry.go
// The registry owns the handler closures bound to every live transport. A
// caller may drop its *Client right after Connect; the registration keeps the
// handlers (and through them the client) reachable until the connection
// reaches a terminal state and is unregistered.

package chatclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when Connect is not
// given one.
func DefaultRegistry() *Registry { return defaultRegistry }

// Registry tracks handler registrations keyed by connection id.
type Registry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*registration
}

type registration struct {
	url      string
	handlers Handlers
	release  func()
	since    time.Time
}

// RegistrationInfo describes a live registration.
type RegistrationInfo struct {
	ID    uuid.UUID
	URL   string
	Since time.Time
}

func NewRegistry() *Registry {
	return &Registry{entries: map[uuid.UUID]*registration{}}
}

// Register binds h to t and holds the binding until Unregister(id).
func (r *Registry) Register(id uuid.UUID, url string, t Transport, h Handlers) error {
	if t == nil {
		return errors.New("nil transport")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		return errors.Errorf("connection %s already registered", id)
	}
	// Bind never invokes handlers synchronously, so holding the lock here
	// only delays an early Unregister until release is recorded.
	entry := &registration{url: url, handlers: h, since: time.Now()}
	entry.release = t.Bind(h)
	r.entries[id] = entry
	return nil
}

// Unregister detaches the handlers of id from their transport and forgets
// them. It reports whether id was registered.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	entry, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok && entry.release != nil {
		entry.release()
	}
	return ok
}

func (r *Registry) Registered(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot lists the live registrations.
func (r *Registry) Snapshot() []RegistrationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RegistrationInfo, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, RegistrationInfo{ID: id, URL: e.url, Since: e.since})
	}
	return out
}
