package store

import "github.com/thereayou/voxus-signal/internal/models"

// ChatHistory keeps a bounded log per room, oldest first.
type ChatHistory struct {
	limit    int
	messages map[string][]models.ChatMessage
}

func NewChatHistory(limit int) *ChatHistory {
	return &ChatHistory{
		limit:    limit,
		messages: make(map[string][]models.ChatMessage),
	}
}

func (h *ChatHistory) Reset(roomID string) {
	h.messages[roomID] = make([]models.ChatMessage, 0)
}

// Append adds msg and evicts the oldest entries beyond the limit.
func (h *ChatHistory) Append(roomID string, msg models.ChatMessage) {
	messages := append(h.messages[roomID], msg)
	if len(messages) > h.limit {
		messages = messages[len(messages)-h.limit:]
	}
	h.messages[roomID] = messages
}

// History returns a copy of the room's log; never nil.
func (h *ChatHistory) History(roomID string) []models.ChatMessage {
	messages := h.messages[roomID]
	out := make([]models.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

func (h *ChatHistory) Delete(roomID string) {
	delete(h.messages, roomID)
}

// Len is the number of rooms with a log.
func (h *ChatHistory) Len() int {
	return len(h.messages)
}
