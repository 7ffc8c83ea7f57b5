package models

// Identity is the mutable profile attached to one live connection.
type Identity struct {
	ID           string
	Name         string
	RoomID       string // empty when not in a room
	IsCreator    bool
	HandRaised   bool
	AudioEnabled bool
}

// MemberView is the public projection broadcast in membership lists.
type MemberView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsCreator    bool   `json:"isCreator"`
	HandRaised   bool   `json:"handRaised"`
	AudioEnabled bool   `json:"audioEnabled"`
}

func NewIdentity(id string) *Identity {
	return &Identity{
		ID:           id,
		Name:         DefaultName(id),
		AudioEnabled: true,
	}
}

// DefaultName derives the placeholder display name from a connection id.
func DefaultName(id string) string {
	if len(id) > 6 {
		id = id[:6]
	}
	return "User " + id
}

func (i *Identity) View() MemberView {
	return MemberView{
		ID:           i.ID,
		Name:         i.Name,
		IsCreator:    i.IsCreator,
		HandRaised:   i.HandRaised,
		AudioEnabled: i.AudioEnabled,
	}
}

// LeaveRoom resets the per-room flags.
func (i *Identity) LeaveRoom() {
	i.RoomID = ""
	i.HandRaised = false
	i.IsCreator = false
}
