package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/pion/logging"

	"github.com/thereayou/voxus-signal/internal/events"
	"github.com/thereayou/voxus-signal/internal/models"
	"github.com/thereayou/voxus-signal/internal/services"
	"github.com/thereayou/voxus-signal/internal/websocket"
	"github.com/thereayou/voxus-signal/pkg/idgen"
)

type RouterOptions struct {
	DefaultRoomMinutes int
	// MaxRoomMinutes caps a requested create-room duration. Zero means only
	// the wire limit applies.
	MaxRoomMinutes int
	// JoinAnnounceDelay postpones user-joined so the joiner can finish its
	// local setup. Zero announces immediately.
	JoinAnnounceDelay time.Duration
}

// MessageHandler routes decoded client events onto the relay state.
type MessageHandler struct {
	relay *services.Relay
	timer *services.RoomTimer
	out   services.Broadcaster
	opts  RouterOptions
	log   logging.LeveledLogger

	now func() time.Time
}

func NewMessageHandler(relay *services.Relay, timer *services.RoomTimer, out services.Broadcaster, opts RouterOptions, log logging.LeveledLogger) *MessageHandler {
	return &MessageHandler{
		relay: relay,
		timer: timer,
		out:   out,
		opts:  opts,
		log:   log,
		now:   time.Now,
	}
}

// HandleConnect gives a new connection its default identity.
func (h *MessageHandler) HandleConnect(connID string) {
	h.relay.Do(func(s *services.State) {
		s.Identities.Register(connID)
	})
	h.log.Debugf("connected: %s", connID)
}

func (h *MessageHandler) HandleMessage(connID string, msg *websocket.Message) error {
	ev, err := events.Decode(msg.Type, msg.Data)
	if err != nil {
		return err
	}
	if e, ok := ev.(*events.CreateRoom); ok && h.opts.MaxRoomMinutes > 0 && e.Duration > h.opts.MaxRoomMinutes {
		return fmt.Errorf("%w: create-room duration %d exceeds %d", events.ErrMalformed, e.Duration, h.opts.MaxRoomMinutes)
	}

	h.relay.Do(func(s *services.State) {
		ident := s.Identities.Get(connID)
		if ident == nil {
			h.log.Debugf("%s from unknown connection %s dropped", msg.Type, connID)
			return
		}
		h.dispatch(s, ident, ev)
	})
	return nil
}

// HandleDisconnect takes the connection out of its room and forgets it.
func (h *MessageHandler) HandleDisconnect(connID string) {
	h.relay.Do(func(s *services.State) {
		if ident := s.Identities.Get(connID); ident != nil && ident.RoomID != "" {
			h.leaveRoom(s, connID, ident.RoomID)
		}
		if n := s.Files.DeleteUploader(connID); n > 0 {
			h.log.Debugf("dropped %d files uploaded by %s", n, connID)
		}
		s.Identities.Remove(connID)
	})
	h.log.Debugf("disconnected: %s", connID)
}

func (h *MessageHandler) dispatch(s *services.State, ident *models.Identity, ev events.Event) {
	switch e := ev.(type) {
	case *events.Ping:
		h.out.SendTo(ident.ID, events.Pong, events.PongPayload{
			Timestamp:  e.Timestamp,
			ServerTime: h.now().UnixMilli(),
		})
	case *events.CreateRoom:
		h.createRoom(s, ident, e)
	case *events.JoinRoom:
		h.joinRoom(s, ident, e)
	case *events.RejoinRoom:
		h.rejoinRoom(s, ident, e)
	case *events.Signal:
		h.relaySignal(s, ident, e)
	case *events.ChatMessageIn:
		h.chatMessage(s, ident, e)
	case *events.SystemMessage:
		h.systemMessage(s, ident, e)
	case *events.UpdateUsername:
		h.updateUsername(s, ident, e)
	case *events.ToggleHand:
		h.toggleHand(s, ident, e)
	case *events.ScreenShare:
		if h.member(s, ident.ID, e.RoomID) {
			h.out.SendToRoom(e.RoomID, events.ScreenShareStatus, events.ScreenSharePayload{
				UserID:    ident.ID,
				IsSharing: e.IsSharing,
			}, ident.ID)
		}
	case *events.FileUploadStart:
		if h.member(s, ident.ID, e.RoomID) {
			h.out.SendToRoom(e.RoomID, events.FileUploadStarted, events.FileUploadStartedPayload{
				UserID:   ident.ID,
				FileName: e.FileName,
				FileSize: e.FileSize,
			}, ident.ID)
		}
	case *events.FileUploadProgressIn:
		if h.member(s, ident.ID, e.RoomID) {
			h.out.SendToRoom(e.RoomID, events.FileUploadProgress, events.FileUploadProgressPayload{
				UserID:   ident.ID,
				FileName: e.FileName,
				Progress: e.Progress,
			}, ident.ID)
		}
	case *events.FileUpload:
		h.fileUpload(s, ident, e)
	case *events.FileDownloadRequest:
		if f, ok := s.Files.Get(e.FileID); ok {
			h.out.SendTo(ident.ID, events.FileDownloadResponse, f)
		} else {
			h.out.SendTo(ident.ID, events.FileNotFound, events.FileNotFoundPayload{FileID: e.FileID})
		}
	case *events.LeaveRoom:
		roomID := e.RoomID
		if roomID == "" {
			roomID = ident.RoomID
		}
		if roomID != "" {
			h.leaveRoom(s, ident.ID, roomID)
		}
	default:
		h.log.Warnf("no route for %s", ev.Type())
	}
}

func (h *MessageHandler) createRoom(s *services.State, ident *models.Identity, e *events.CreateRoom) {
	if e.RoomID != "" && s.Rooms.Get(e.RoomID) != nil {
		h.out.SendTo(ident.ID, events.RoomExists, events.RoomNoticePayload{RoomID: e.RoomID})
		return
	}
	if ident.RoomID != "" {
		h.leaveRoom(s, ident.ID, ident.RoomID)
	}

	minutes := e.Duration
	if minutes == 0 {
		minutes = h.opts.DefaultRoomMinutes
	}
	room, err := s.Rooms.Create(e.RoomID, ident.ID, minutes, h.now())
	if err != nil {
		h.log.Errorf("create room %q: %v", e.RoomID, err)
		return
	}

	rename(ident, e.Username)
	ident.RoomID = room.ID
	ident.IsCreator = true
	ident.HandRaised = false
	s.Chat.Reset(room.ID)

	h.out.JoinGroup(ident.ID, room.ID)
	h.timer.Start()

	h.out.SendTo(ident.ID, events.RoomCreated, events.RoomCreatedPayload{
		RoomID:   room.ID,
		Duration: room.DurationMinutes,
	})
	h.out.SendTo(ident.ID, events.TimerUpdate, events.TimerUpdatePayload{TimeRemaining: room.RemainingSeconds})
	h.broadcastMembers(s, room.ID)

	h.log.Infof("room %s created by %s (%d min)", room.ID, ident.ID, room.DurationMinutes)
}

// admit puts ident into roomID, leaving any other room first. It answers
// room-not-found or room-full itself and returns nil in that case.
func (h *MessageHandler) admit(s *services.State, ident *models.Identity, roomID, username string) *models.Room {
	room := s.Rooms.Get(roomID)
	if room == nil {
		h.out.SendTo(ident.ID, events.RoomNotFound, events.RoomNoticePayload{RoomID: roomID})
		return nil
	}
	if !room.Has(ident.ID) && room.IsFull(s.Rooms.Capacity()) {
		h.out.SendTo(ident.ID, events.RoomFull, events.RoomNoticePayload{RoomID: roomID})
		return nil
	}

	if ident.RoomID != "" && ident.RoomID != roomID {
		h.leaveRoom(s, ident.ID, ident.RoomID)
	}
	room, err := s.Rooms.Join(roomID, ident.ID)
	if err != nil {
		h.log.Errorf("join %s: %v", roomID, err)
		return nil
	}

	rename(ident, username)
	ident.RoomID = roomID
	ident.IsCreator = room.CreatorID == ident.ID
	h.out.JoinGroup(ident.ID, roomID)
	return room
}

func (h *MessageHandler) joinRoom(s *services.State, ident *models.Identity, e *events.JoinRoom) {
	room := h.admit(s, ident, e.RoomID, e.Username)
	if room == nil {
		return
	}

	h.out.SendTo(ident.ID, events.RoomJoined, events.RoomJoinedPayload{
		RoomID:        room.ID,
		ExistingUsers: s.Others(room.ID, ident.ID),
		Duration:      room.DurationMinutes,
		TimeRemaining: room.RemainingSeconds,
		ChatHistory:   s.Chat.History(room.ID),
	})
	h.broadcastMembers(s, room.ID)
	h.announceJoin(s, ident.ID, room.ID)
}

func (h *MessageHandler) rejoinRoom(s *services.State, ident *models.Identity, e *events.RejoinRoom) {
	room := h.admit(s, ident, e.RoomID, e.Username)
	if room == nil {
		return
	}

	h.out.SendTo(ident.ID, events.RejoinSuccess, events.RejoinSuccessPayload{
		RoomID:        room.ID,
		ExistingUsers: s.Others(room.ID, ident.ID),
		ChatHistory:   s.Chat.History(room.ID),
	})
	h.broadcastMembers(s, room.ID)
}

// announceJoin tells the other members about connID, after the configured
// delay. A delayed announcement is dropped if connID has left roomID by then.
func (h *MessageHandler) announceJoin(s *services.State, connID, roomID string) {
	if h.opts.JoinAnnounceDelay <= 0 {
		h.sendJoined(s, connID, roomID)
		return
	}
	time.AfterFunc(h.opts.JoinAnnounceDelay, func() {
		h.relay.Do(func(s *services.State) {
			h.sendJoined(s, connID, roomID)
		})
	})
}

func (h *MessageHandler) sendJoined(s *services.State, connID, roomID string) {
	ident := s.Identities.Get(connID)
	if ident == nil || ident.RoomID != roomID || !h.member(s, connID, roomID) {
		return
	}
	h.out.SendToRoom(roomID, events.UserJoined, events.UserJoinedPayload{
		UserID:   connID,
		Username: ident.Name,
	}, connID)
}

func (h *MessageHandler) relaySignal(s *services.State, ident *models.Identity, e *events.Signal) {
	if !h.member(s, ident.ID, e.RoomID) || !h.member(s, e.Target, e.RoomID) {
		h.log.Debugf("signal from %s to %s outside room %s dropped", ident.ID, e.Target, e.RoomID)
		return
	}
	h.out.SendTo(e.Target, events.WebRTCSignal, e.Relay(ident.ID))
}

func (h *MessageHandler) chatMessage(s *services.State, ident *models.Identity, e *events.ChatMessageIn) {
	if ident.RoomID == "" || s.Rooms.Get(ident.RoomID) == nil {
		return
	}
	now := h.now().UTC()
	msg := models.ChatMessage{
		ID:        idgen.MessageID(now),
		UserID:    ident.ID,
		UserName:  ident.Name,
		Message:   e.Message,
		Timestamp: now,
		Type:      models.MessageKindText,
	}
	s.Chat.Append(ident.RoomID, msg)
	h.out.SendToRoom(ident.RoomID, events.ChatMessage, msg, "")
}

func (h *MessageHandler) systemMessage(s *services.State, ident *models.Identity, e *events.SystemMessage) {
	if s.Rooms.Get(e.RoomID) == nil {
		h.out.SendTo(ident.ID, events.RoomNotFound, events.RoomNoticePayload{RoomID: e.RoomID})
		return
	}
	now := h.now().UTC()
	msg := models.ChatMessage{
		ID:        idgen.MessageID(now),
		UserID:    models.SystemSenderID,
		UserName:  models.SystemSenderName,
		Message:   e.Message,
		Timestamp: now,
		Type:      models.MessageKindSystem,
	}
	s.Chat.Append(e.RoomID, msg)
	h.out.SendToRoom(e.RoomID, events.ChatMessage, msg, "")
}

func (h *MessageHandler) updateUsername(s *services.State, ident *models.Identity, e *events.UpdateUsername) {
	old := ident.Name
	rename(ident, e.NewUsername)
	if ident.RoomID == "" {
		return
	}
	h.out.SendToRoom(ident.RoomID, events.UsernameUpdated, events.UsernameUpdatedPayload{
		UserID:      ident.ID,
		NewUsername: ident.Name,
		OldUsername: old,
	}, ident.ID)
	h.broadcastMembers(s, ident.RoomID)
}

func (h *MessageHandler) toggleHand(s *services.State, ident *models.Identity, e *events.ToggleHand) {
	if ident.RoomID == "" {
		return
	}
	ident.HandRaised = *e.HandRaised
	h.out.SendToRoom(ident.RoomID, events.UserHandToggled, events.HandToggledPayload{
		UserID:     ident.ID,
		HandRaised: ident.HandRaised,
		UserName:   ident.Name,
	}, ident.ID)
	h.broadcastMembers(s, ident.RoomID)
}

// fileUpload stores the file in the uploader's room when roomId names it,
// and otherwise keeps it with the uploader until they disconnect.
func (h *MessageHandler) fileUpload(s *services.State, ident *models.Identity, e *events.FileUpload) {
	now := h.now()
	f := models.SharedFile{
		FileID:    idgen.FileID(now),
		FileName:  e.FileName,
		FileSize:  e.FileSize,
		FileType:  e.FileType,
		FileData:  e.FileData,
		UserID:    ident.ID,
		UserName:  ident.Name,
		Timestamp: now.UnixMilli(),
	}
	if e.RoomID != "" && h.member(s, ident.ID, e.RoomID) {
		f.RoomID = e.RoomID
	}
	s.Files.Put(f)

	if f.RoomID != "" {
		h.out.SendToRoom(f.RoomID, events.FileUploadCompleted, f.Metadata(), "")
	}
	h.log.Debugf("file %s (%d bytes) from %s", f.FileID, f.FileSize, ident.ID)
}

// leaveRoom is shared by leave-room, room switches and disconnect.
func (h *MessageHandler) leaveRoom(s *services.State, connID, roomID string) {
	s.Identities.ClearRoom(connID, roomID)
	if !h.member(s, connID, roomID) {
		return
	}

	h.out.LeaveGroup(connID, roomID)
	if _, deleted := s.RemoveMember(roomID, connID); deleted {
		h.log.Infof("room %s deleted, last member left", roomID)
		return
	}
	h.out.SendToRoom(roomID, events.UserLeft, events.UserLeftPayload{UserID: connID}, connID)
	h.broadcastMembers(s, roomID)
}

func (h *MessageHandler) broadcastMembers(s *services.State, roomID string) {
	h.out.SendToRoom(roomID, events.UsersListUpdated, s.Members(roomID), "")
}

func (h *MessageHandler) member(s *services.State, connID, roomID string) bool {
	room := s.Rooms.Get(roomID)
	return room != nil && room.Has(connID)
}

func rename(ident *models.Identity, name string) {
	if name = strings.TrimSpace(name); name != "" {
		ident.Name = name
	}
}
