// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package server

import "sync"

// registry maps live connection ids to their handles. An entry exists
// exactly while the connection's pumps are running; the connection
// removes itself on release.
type registry struct {
	mu          sync.RWMutex
	connections map[ConnectionID]*connection
}

func newRegistry() *registry {
	return &registry{connections: make(map[ConnectionID]*connection)}
}

func (r *registry) insert(id ConnectionID, c *connection) {
	r.mu.Lock()
	r.connections[id] = c
	r.mu.Unlock()
}

// lookup returns the handle for id. A miss is normal: the client may
// have disconnected while the application was working.
func (r *registry) lookup(id ConnectionID) (*connection, bool) {
	r.mu.RLock()
	c, ok := r.connections[id]
	r.mu.RUnlock()
	return c, ok
}

// remove deletes id. Removing an absent id is a no-op.
func (r *registry) remove(id ConnectionID) {
	r.mu.Lock()
	delete(r.connections, id)
	r.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

// snapshot returns the handles registered at the time of the call.
func (r *registry) snapshot() []*connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]*connection, 0, len(r.connections))
	for _, c := range r.connections {
		handles = append(handles, c)
	}
	return handles
}
