package events

import (
	"encoding/json"

	"github.com/thereayou/voxus-signal/internal/models"
)

type PongPayload struct {
	Timestamp  json.RawMessage `json:"timestamp"`
	ServerTime int64           `json:"serverTime"`
}

type RoomCreatedPayload struct {
	RoomID   string `json:"roomId"`
	Duration int    `json:"duration"`
}

type TimerUpdatePayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type RoomJoinedPayload struct {
	RoomID        string               `json:"roomId"`
	ExistingUsers []models.MemberView  `json:"existingUsers"`
	Duration      int                  `json:"duration"`
	TimeRemaining int                  `json:"timeRemaining"`
	ChatHistory   []models.ChatMessage `json:"chatHistory"`
}

type RejoinSuccessPayload struct {
	RoomID        string               `json:"roomId"`
	ExistingUsers []models.MemberView  `json:"existingUsers"`
	ChatHistory   []models.ChatMessage `json:"chatHistory"`
}

// RoomNoticePayload accompanies room-not-found, room-full and room-exists.
type RoomNoticePayload struct {
	RoomID string `json:"roomId"`
}

type UserJoinedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type UserLeftPayload struct {
	UserID string `json:"userId"`
}

type UsernameUpdatedPayload struct {
	UserID      string `json:"userId"`
	NewUsername string `json:"newUsername"`
	OldUsername string `json:"oldUsername"`
}

type HandToggledPayload struct {
	UserID     string `json:"userId"`
	HandRaised bool   `json:"handRaised"`
	UserName   string `json:"userName"`
}

type ScreenSharePayload struct {
	UserID    string `json:"userId"`
	IsSharing bool   `json:"isSharing"`
}

type FileUploadStartedPayload struct {
	UserID   string `json:"userId"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

type FileUploadProgressPayload struct {
	UserID   string  `json:"userId"`
	FileName string  `json:"fileName"`
	Progress float64 `json:"progress"`
}

type FileNotFoundPayload struct {
	FileID string `json:"fileId"`
}
