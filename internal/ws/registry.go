package ws

import "sync"

// Registry tracks which live connections are subscribed to which chatroom.
// It owns all synchronization; callers never see the underlying map.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Connection]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Connection]struct{})}
}

// Register adds the connection to the room's set, creating the set if
// absent. Re-registering the same connection is a no-op.
func (r *Registry) Register(roomID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[*Connection]struct{})
	}
	r.rooms[roomID][conn] = struct{}{}
}

// Deregister removes the connection from the room's set and prunes the set
// once empty. Removing an absent connection is a no-op since disconnects can
// race with cleanup.
func (r *Registry) Deregister(roomID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conns, ok := r.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// Snapshot returns a copy of the room's current connection set, safe to
// iterate while other goroutines register and deregister.
func (r *Registry) Snapshot(roomID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Connection, 0, len(r.rooms[roomID]))
	for conn := range r.rooms[roomID] {
		conns = append(conns, conn)
	}
	return conns
}
