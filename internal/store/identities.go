// Package store holds the in-memory registries behind the relay.
// None of the types are safe for concurrent use; services.Relay serializes
// every access.
package store

import "github.com/thereayou/voxus-signal/internal/models"

type IdentityRegistry struct {
	byConn map[string]*models.Identity
}

func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{byConn: make(map[string]*models.Identity)}
}

// Register creates the default identity for connID or returns the existing one.
func (r *IdentityRegistry) Register(connID string) *models.Identity {
	if id, ok := r.byConn[connID]; ok {
		return id
	}
	id := models.NewIdentity(connID)
	r.byConn[connID] = id
	return id
}

func (r *IdentityRegistry) Get(connID string) *models.Identity {
	return r.byConn[connID]
}

// Update applies fn to the identity and reports whether it exists.
func (r *IdentityRegistry) Update(connID string, fn func(*models.Identity)) bool {
	id, ok := r.byConn[connID]
	if !ok {
		return false
	}
	fn(id)
	return true
}

// ClearRoom resets the room fields of connID if it is currently in roomID.
func (r *IdentityRegistry) ClearRoom(connID, roomID string) {
	if id, ok := r.byConn[connID]; ok && id.RoomID == roomID {
		id.LeaveRoom()
	}
}

func (r *IdentityRegistry) Remove(connID string) {
	delete(r.byConn, connID)
}

func (r *IdentityRegistry) Len() int {
	return len(r.byConn)
}
