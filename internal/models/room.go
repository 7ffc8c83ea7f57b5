package models

import "time"

type Room struct {
	ID               string
	CreatorID        string
	Members          []string // join order
	CreatedAt        time.Time
	DurationMinutes  int
	RemainingSeconds int
}

func (r *Room) Has(connID string) bool {
	for _, id := range r.Members {
		if id == connID {
			return true
		}
	}
	return false
}

// IsFull reports whether another member would exceed capacity.
func (r *Room) IsFull(capacity int) bool {
	return len(r.Members) >= capacity
}

// AddMember appends connID unless it is already present.
func (r *Room) AddMember(connID string) {
	if !r.Has(connID) {
		r.Members = append(r.Members, connID)
	}
}

// RemoveMember drops connID and reports whether it was a member.
func (r *Room) RemoveMember(connID string) bool {
	for i, id := range r.Members {
		if id == connID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}
