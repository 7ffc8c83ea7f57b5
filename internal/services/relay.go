package services

import (
	"sync"

	"github.com/thereayou/voxus-signal/internal/models"
	"github.com/thereayou/voxus-signal/internal/store"
)

// Broadcaster delivers outbound events. Delivery is fire-and-forget.
type Broadcaster interface {
	SendTo(connID, event string, payload interface{})
	// SendToRoom delivers to every group member except exceptID (empty = nobody).
	SendToRoom(roomID, event string, payload interface{}, exceptID string)
	JoinGroup(connID, roomID string)
	LeaveGroup(connID, roomID string)
}

type RelayOptions struct {
	RoomCapacity int
	HistoryLimit int
}

// Relay owns the four stores and serializes every access to them.
type Relay struct {
	mu     sync.Mutex
	state  *State
	closed bool
}

// State is the view of the stores handed to code running inside Relay.Do.
// It must not be retained after the callback returns.
type State struct {
	Identities *store.IdentityRegistry
	Rooms      *store.RoomRegistry
	Chat       *store.ChatHistory
	Files      *store.FileStore
}

type Stats struct {
	Rooms int
	Users int
	Files int
}

func NewRelay(opts RelayOptions) *Relay {
	return &Relay{state: newState(opts)}
}

func newState(opts RelayOptions) *State {
	return &State{
		Identities: store.NewIdentityRegistry(),
		Rooms:      store.NewRoomRegistry(opts.RoomCapacity),
		Chat:       store.NewChatHistory(opts.HistoryLimit),
		Files:      store.NewFileStore(),
	}
}

// Do runs fn with exclusive access to the stores. It is a no-op once the
// relay is closed.
func (r *Relay) Do(fn func(s *State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	fn(r.state)
}

func (r *Relay) Stats() Stats {
	var st Stats
	r.Do(func(s *State) {
		st = Stats{Rooms: s.Rooms.Len(), Users: s.Identities.Len(), Files: s.Files.Len()}
	})
	return st
}

// Close releases every store. Later calls to Do do nothing.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.state = nil
}

// RemoveMember takes connID out of roomID. When that empties the room, the
// room, its chat log and its files are dropped together and deleted is true.
func (s *State) RemoveMember(roomID, connID string) (room *models.Room, deleted bool) {
	room, deleted = s.Rooms.Leave(roomID, connID)
	if deleted {
		s.Chat.Delete(roomID)
		s.Files.DeleteRoom(roomID)
	}
	return room, deleted
}

// DropRoom deletes the room with everything keyed by it.
func (s *State) DropRoom(roomID string) {
	s.Rooms.Delete(roomID)
	s.Chat.Delete(roomID)
	s.Files.DeleteRoom(roomID)
}

// Members is the membership projection of roomID in join order.
func (s *State) Members(roomID string) []models.MemberView {
	return s.Others(roomID, "")
}

// Others is Members without exceptID.
func (s *State) Others(roomID, exceptID string) []models.MemberView {
	room := s.Rooms.Get(roomID)
	views := make([]models.MemberView, 0)
	if room == nil {
		return views
	}
	for _, id := range room.Members {
		if id == exceptID {
			continue
		}
		if ident := s.Identities.Get(id); ident != nil {
			views = append(views, ident.View())
		}
	}
	return views
}
