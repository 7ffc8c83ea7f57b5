package models

import "time"

const (
	MessageKindText   = "text"
	MessageKindSystem = "system"

	SystemSenderID   = "system"
	SystemSenderName = "System"
)

// ChatMessage is immutable once appended to a room's history.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}
