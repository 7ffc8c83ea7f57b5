package store

import (
	"fmt"
	"time"

	"github.com/thereayou/voxus-signal/internal/models"
	"github.com/thereayou/voxus-signal/pkg/idgen"
)

type RoomRegistry struct {
	capacity int
	rooms    map[string]*models.Room
	order    []string // creation order, used for deterministic iteration
	newID    func() string
}

func NewRoomRegistry(capacity int) *RoomRegistry {
	return &RoomRegistry{
		capacity: capacity,
		rooms:    make(map[string]*models.Room),
		newID:    idgen.RoomID,
	}
}

func (r *RoomRegistry) Capacity() int {
	return r.capacity
}

// Create registers a room with creatorID as its only member. An empty roomID
// is replaced by a generated one.
func (r *RoomRegistry) Create(roomID, creatorID string, durationMinutes int, now time.Time) (*models.Room, error) {
	if roomID == "" {
		for roomID == "" || r.rooms[roomID] != nil {
			roomID = r.newID()
		}
	} else if _, ok := r.rooms[roomID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, roomID)
	}

	room := &models.Room{
		ID:               roomID,
		CreatorID:        creatorID,
		Members:          []string{creatorID},
		CreatedAt:        now,
		DurationMinutes:  durationMinutes,
		RemainingSeconds: durationMinutes * 60,
	}
	r.rooms[roomID] = room
	r.order = append(r.order, roomID)
	return room, nil
}

// Join adds connID to the room. Rejoining is idempotent and never hits the
// capacity check.
func (r *RoomRegistry) Join(roomID, connID string) (*models.Room, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if room.Has(connID) {
		return room, nil
	}
	if room.IsFull(r.capacity) {
		return nil, fmt.Errorf("%w: %s", ErrRoomFull, roomID)
	}
	room.AddMember(connID)
	return room, nil
}

// Leave removes connID. When the room becomes empty it is deleted and empty
// is true; the caller owns deleting anything else keyed by the room.
func (r *RoomRegistry) Leave(roomID, connID string) (room *models.Room, empty bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	room.RemoveMember(connID)
	if len(room.Members) == 0 {
		r.Delete(roomID)
		return room, true
	}
	return room, false
}

func (r *RoomRegistry) Get(roomID string) *models.Room {
	return r.rooms[roomID]
}

func (r *RoomRegistry) Delete(roomID string) {
	if _, ok := r.rooms[roomID]; !ok {
		return
	}
	delete(r.rooms, roomID)
	for i, id := range r.order {
		if id == roomID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns the active rooms in creation order.
func (r *RoomRegistry) All() []*models.Room {
	out := make([]*models.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id])
	}
	return out
}

func (r *RoomRegistry) Len() int {
	return len(r.rooms)
}
