package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Event is one of the closed set of inbound variants below.
type Event interface {
	Type() string
	Validate() error
}

var registry = map[string]func() Event{
	TypePing:                func() Event { return &Ping{} },
	TypeCreateRoom:          func() Event { return &CreateRoom{} },
	TypeJoinRoom:            func() Event { return &JoinRoom{} },
	TypeRejoinRoom:          func() Event { return &RejoinRoom{} },
	TypeWebRTCSignal:        func() Event { return &Signal{} },
	TypeChatMessage:         func() Event { return &ChatMessageIn{} },
	TypeSystemMessage:       func() Event { return &SystemMessage{} },
	TypeUpdateUsername:      func() Event { return &UpdateUsername{} },
	TypeToggleHand:          func() Event { return &ToggleHand{} },
	TypeScreenShareStatus:   func() Event { return &ScreenShare{} },
	TypeFileUploadStart:     func() Event { return &FileUploadStart{} },
	TypeFileUploadProgress:  func() Event { return &FileUploadProgressIn{} },
	TypeFileUpload:          func() Event { return &FileUpload{} },
	TypeFileDownloadRequest: func() Event { return &FileDownloadRequest{} },
	TypeLeaveRoom:           func() Event { return &LeaveRoom{} },
}

// Decode parses data into the variant registered for eventType and validates it.
func Decode(eventType string, data json.RawMessage) (Event, error) {
	newEvent, ok := registry[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, eventType)
	}
	ev := newEvent()
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, ev); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, eventType, err)
		}
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

func missing(eventType, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrMalformed, eventType, field)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type Ping struct {
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

func (*Ping) Type() string    { return TypePing }
func (*Ping) Validate() error { return nil }

// MaxDurationMinutes keeps the countdown in seconds within int32.
const MaxDurationMinutes = math.MaxInt32 / 60

type CreateRoom struct {
	RoomID   string `json:"roomId,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Username string `json:"username,omitempty"`
}

func (*CreateRoom) Type() string { return TypeCreateRoom }

func (e *CreateRoom) Validate() error {
	if e.Duration < 0 || e.Duration > MaxDurationMinutes {
		return fmt.Errorf("%w: create-room duration %d", ErrMalformed, e.Duration)
	}
	return nil
}

type JoinRoom struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username,omitempty"`
}

func (*JoinRoom) Type() string { return TypeJoinRoom }

func (e *JoinRoom) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeJoinRoom, "roomId")
	}
	return nil
}

type RejoinRoom struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username,omitempty"`
}

func (*RejoinRoom) Type() string { return TypeRejoinRoom }

func (e *RejoinRoom) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeRejoinRoom, "roomId")
	}
	return nil
}

type ChatMessageIn struct {
	Message string `json:"message"`
}

func (*ChatMessageIn) Type() string { return TypeChatMessage }

func (e *ChatMessageIn) Validate() error {
	if blank(e.Message) {
		return missing(TypeChatMessage, "message")
	}
	return nil
}

type SystemMessage struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

func (*SystemMessage) Type() string { return TypeSystemMessage }

func (e *SystemMessage) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeSystemMessage, "roomId")
	}
	if blank(e.Message) {
		return missing(TypeSystemMessage, "message")
	}
	return nil
}

type UpdateUsername struct {
	NewUsername string `json:"newUsername"`
}

func (*UpdateUsername) Type() string { return TypeUpdateUsername }

func (e *UpdateUsername) Validate() error {
	if blank(e.NewUsername) {
		return missing(TypeUpdateUsername, "newUsername")
	}
	return nil
}

type ToggleHand struct {
	HandRaised *bool `json:"handRaised"`
}

func (*ToggleHand) Type() string { return TypeToggleHand }

func (e *ToggleHand) Validate() error {
	if e.HandRaised == nil {
		return missing(TypeToggleHand, "handRaised")
	}
	return nil
}

type ScreenShare struct {
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId"`
	IsSharing bool   `json:"isSharing"`
}

func (*ScreenShare) Type() string { return TypeScreenShareStatus }

func (e *ScreenShare) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeScreenShareStatus, "roomId")
	}
	if blank(e.UserID) {
		return missing(TypeScreenShareStatus, "userId")
	}
	return nil
}

type FileUploadStart struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

func (*FileUploadStart) Type() string { return TypeFileUploadStart }

func (e *FileUploadStart) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeFileUploadStart, "roomId")
	}
	return nil
}

type FileUploadProgressIn struct {
	RoomID   string  `json:"roomId"`
	UserID   string  `json:"userId,omitempty"`
	FileName string  `json:"fileName,omitempty"`
	Progress float64 `json:"progress"`
}

func (*FileUploadProgressIn) Type() string { return TypeFileUploadProgress }

func (e *FileUploadProgressIn) Validate() error {
	if blank(e.RoomID) {
		return missing(TypeFileUploadProgress, "roomId")
	}
	return nil
}

type FileUpload struct {
	RoomID   string `json:"roomId,omitempty"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileData string `json:"fileData"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
}

func (*FileUpload) Type() string { return TypeFileUpload }

func (e *FileUpload) Validate() error {
	if blank(e.FileName) {
		return missing(TypeFileUpload, "fileName")
	}
	if e.FileData == "" {
		return missing(TypeFileUpload, "fileData")
	}
	if e.FileSize < 0 {
		return fmt.Errorf("%w: file-upload fileSize %d", ErrMalformed, e.FileSize)
	}
	return nil
}

type FileDownloadRequest struct {
	FileID string `json:"fileId"`
}

func (*FileDownloadRequest) Type() string { return TypeFileDownloadRequest }

func (e *FileDownloadRequest) Validate() error {
	if blank(e.FileID) {
		return missing(TypeFileDownloadRequest, "fileId")
	}
	return nil
}

type LeaveRoom struct {
	RoomID string `json:"roomId,omitempty"`
}

func (*LeaveRoom) Type() string    { return TypeLeaveRoom }
func (*LeaveRoom) Validate() error { return nil }
