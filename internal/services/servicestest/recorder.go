// Package servicestest provides an in-memory Broadcaster for tests.
package servicestest

import "sync"

type Sent struct {
	To      string // connection id for unicast, room id for broadcast
	Room    bool
	Event   string
	Payload interface{}
	Except  string
}

// Recorder keeps every delivery and the group membership it was told about.
type Recorder struct {
	mu     sync.Mutex
	sent   []Sent
	groups map[string]map[string]bool
}

func NewRecorder() *Recorder {
	return &Recorder{groups: make(map[string]map[string]bool)}
}

func (r *Recorder) SendTo(connID, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{To: connID, Event: event, Payload: payload})
}

func (r *Recorder) SendToRoom(roomID, event string, payload interface{}, exceptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{To: roomID, Room: true, Event: event, Payload: payload, Except: exceptID})
}

func (r *Recorder) JoinGroup(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groups[roomID] == nil {
		r.groups[roomID] = make(map[string]bool)
	}
	r.groups[roomID][connID] = true
}

func (r *Recorder) LeaveGroup(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups[roomID], connID)
}

// Events returns the deliveries of one event type in send order.
func (r *Recorder) Events(name string) []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sent
	for _, s := range r.sent {
		if s.Event == name {
			out = append(out, s)
		}
	}
	return out
}

// Received returns what connID would have seen, resolving room broadcasts
// against the group membership at the time of the call.
func (r *Recorder) Received(connID string) []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sent
	for _, s := range r.sent {
		switch {
		case !s.Room && s.To == connID:
			out = append(out, s)
		case s.Room && s.Except != connID && r.groups[s.To][connID]:
			out = append(out, s)
		}
	}
	return out
}

// Names lists event names in send order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.sent))
	for _, s := range r.sent {
		names = append(names, s.Event)
	}
	return names
}

func (r *Recorder) InGroup(connID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.groups[roomID][connID]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
