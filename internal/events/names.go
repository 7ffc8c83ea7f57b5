// Package events defines the wire protocol spoken over the signaling socket.
package events

// Inbound event types.
const (
	TypePing                = "ping"
	TypeCreateRoom          = "create-room"
	TypeJoinRoom            = "join-room"
	TypeRejoinRoom          = "rejoin-room"
	TypeWebRTCSignal        = "webrtc-signal"
	TypeChatMessage         = "chat-message"
	TypeSystemMessage       = "system-message"
	TypeUpdateUsername      = "update-username"
	TypeToggleHand          = "toggle-hand"
	TypeScreenShareStatus   = "screen-share-status"
	TypeFileUploadStart     = "file-upload-start"
	TypeFileUploadProgress  = "file-upload-progress"
	TypeFileUpload          = "file-upload"
	TypeFileDownloadRequest = "file-download-request"
	TypeLeaveRoom           = "leave-room"
)

// Outbound event types. Some share a name with the inbound event they answer.
const (
	Pong                 = "pong"
	RoomCreated          = "room-created"
	RoomExists           = "room-exists"
	RoomJoined           = "room-joined"
	RoomNotFound         = "room-not-found"
	RoomFull             = "room-full"
	RejoinSuccess        = "rejoin-success"
	TimerUpdate          = "timer-update"
	RoomTimeEnded        = "room-time-ended"
	UserJoined           = "user-joined"
	UserLeft             = "user-left"
	UsersListUpdated     = "users-list-updated"
	WebRTCSignal         = "webrtc-signal"
	ChatMessage          = "chat-message"
	UsernameUpdated      = "username-updated"
	UserHandToggled      = "user-hand-toggled"
	ScreenShareStatus    = "screen-share-status"
	FileUploadStarted    = "file-upload-started"
	FileUploadProgress   = "file-upload-progress"
	FileUploadCompleted  = "file-upload-completed"
	FileDownloadResponse = "file-download-response"
	FileNotFound         = "file-not-found"
)
