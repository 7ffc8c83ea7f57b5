package services

import (
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/thereayou/voxus-signal/internal/events"
)

// RoomTimer is the single ticker that counts down every room. It runs only
// while some room has time left and is restarted by Start.
type RoomTimer struct {
	relay    *Relay
	out      Broadcaster
	interval time.Duration
	log      logging.LeveledLogger

	mu      sync.Mutex
	running bool
	stopped bool
	stop    chan struct{}
}

func NewRoomTimer(relay *Relay, out Broadcaster, interval time.Duration, log logging.LeveledLogger) *RoomTimer {
	return &RoomTimer{
		relay:    relay,
		out:      out,
		interval: interval,
		log:      log,
	}
}

// Start launches the tick loop unless it is already running. It may be
// called from inside Relay.Do.
func (t *RoomTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.stopped {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	go t.loop(t.stop)
	t.log.Debug("room timer started")
}

func (t *RoomTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Stop halts the loop for good.
func (t *RoomTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.running {
		close(t.stop)
		t.running = false
	}
}

func (t *RoomTimer) loop(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !t.tick(stop) {
				return
			}
		}
	}
}

// Tick advances every room by one second of countdown and reports whether
// any room still had time left.
func (t *RoomTimer) Tick() bool {
	return t.tick(nil)
}

// tick runs one step for the loop identified by gen (nil when driven by
// hand). A superseded loop does nothing and returns false. When no room had
// time left the timer is marked idle inside the relay lock, so a Start issued
// by a concurrent create-room is never lost.
func (t *RoomTimer) tick(gen chan struct{}) bool {
	active, ran := false, false
	t.relay.Do(func(s *State) {
		if gen != nil && !t.owns(gen) {
			return
		}
		ran = true
		for _, room := range s.Rooms.All() {
			if room.RemainingSeconds <= 0 {
				continue
			}
			active = true
			room.RemainingSeconds--
			t.out.SendToRoom(room.ID, events.TimerUpdate, events.TimerUpdatePayload{TimeRemaining: room.RemainingSeconds}, "")

			if room.RemainingSeconds == 0 {
				t.out.SendToRoom(room.ID, events.RoomTimeEnded, nil, "")
				for _, connID := range room.Members {
					t.out.LeaveGroup(connID, room.ID)
					s.Identities.ClearRoom(connID, room.ID)
				}
				s.DropRoom(room.ID)
				t.log.Infof("room %s time ended", room.ID)
			}
		}
		if !active {
			t.markIdle(gen)
		}
	})
	if !ran {
		t.markIdle(gen)
		return false
	}
	if !active {
		t.log.Debug("room timer idle")
	}
	return active
}

func (t *RoomTimer) owns(gen chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.stop == gen
}

func (t *RoomTimer) markIdle(gen chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == nil || t.stop == gen {
		t.running = false
	}
}
