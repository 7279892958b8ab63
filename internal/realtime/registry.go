// Package realtime holds the in-process connection registry: the live
// handle↔user mapping behind push delivery and presence. The registry is
// volatile by design — it is rebuilt empty on every restart and clients
// re-establish their channel (polling covers the gap).
package realtime

import (
	"sync"
	"time"
)

// Association is one (handle, user) pair snapshot.
type Association struct {
	Handle      string
	UserID      string
	ConnectedAt time.Time
}

// Registry maps ephemeral connection handles to user identities.
// Both directions are maintained explicitly — forward handle→entry and
// reverse user→set-of-handles, updated under the same lock — so
// ConnectionsFor is proportional to that user's connections, not to the
// total connection count.
type Registry struct {
	mu       sync.RWMutex
	byHandle map[string]Association
	byUser   map[string]map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byHandle: make(map[string]Association),
		byUser:   make(map[string]map[string]struct{}),
	}
}

// Register associates a handle with a user. Re-registering an existing
// handle overwrites the prior association; it never fails.
func (r *Registry) Register(handle, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byHandle[handle]; ok {
		r.dropReverse(prev.UserID, handle)
	}

	r.byHandle[handle] = Association{Handle: handle, UserID: userID, ConnectedAt: time.Now()}
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]struct{})
	}
	r.byUser[userID][handle] = struct{}{}
}

// Unregister removes the association. Unknown handles are a no-op.
func (r *Registry) Unregister(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assoc, ok := r.byHandle[handle]
	if !ok {
		return
	}
	delete(r.byHandle, handle)
	r.dropReverse(assoc.UserID, handle)
}

// dropReverse removes handle from the user's reverse set. Caller holds mu.
func (r *Registry) dropReverse(userID, handle string) {
	handles := r.byUser[userID]
	if handles == nil {
		return
	}
	delete(handles, handle)
	if len(handles) == 0 {
		delete(r.byUser, userID)
	}
}

// ConnectionsFor returns the live handles for a user; empty if none.
func (r *Registry) ConnectionsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	handles := make([]string, 0, len(set))
	for h := range set {
		handles = append(handles, h)
	}
	return handles
}

// AllAssociations returns a snapshot of every (handle, user) pair.
func (r *Registry) AllAssociations() []Association {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Association, 0, len(r.byHandle))
	for _, a := range r.byHandle {
		out = append(out, a)
	}
	return out
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHandle)
}
