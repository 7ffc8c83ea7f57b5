package websocket

import (
	"context"
	"sync"

	"github.com/pion/logging"
)

type Hub struct {
	clients map[string]*Client

	// broadcast groups keyed by room id
	rooms map[string]map[string]*Client

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log logging.LeveledLogger

	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(log logging.LeveledLogger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) error {
	defer h.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-h.done:
			return nil

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop closes every client queue. Registrations after Stop fail with
// ErrHubStopped.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for id, client := range h.clients {
			close(client.Send)
			delete(h.clients, id)
		}
		h.rooms = make(map[string]map[string]*Client)
	})
}

// Register blocks until the client is visible to SendTo and JoinGroup.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
	case <-h.done:
		return ErrHubStopped
	}
	select {
	case <-client.registered:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return
	default:
	}
	h.clients[client.ID] = client
	close(client.registered)

	h.log.Debugf("client registered: %s", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for roomID := range client.groups {
		h.removeFromGroupUnsafe(client.ID, roomID)
	}
	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Debugf("client unregistered: %s", client.ID)
}

// JoinGroup adds the connection to the broadcast group of roomID.
func (h *Hub) JoinGroup(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][connID] = client
	client.groups[roomID] = true
}

func (h *Hub) LeaveGroup(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromGroupUnsafe(connID, roomID)
}

func (h *Hub) removeFromGroupUnsafe(connID, roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if client, ok := room[connID]; ok {
		delete(room, connID)
		delete(client.groups, roomID)
	}
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// SendTo queues event for a single connection.
func (h *Hub) SendTo(connID, event string, payload interface{}) {
	data, err := Encode(event, payload)
	if err != nil {
		h.log.Errorf("%v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.enqueue(client, data)
	}
}

// SendToRoom queues event for every member of roomID except exceptID.
func (h *Hub) SendToRoom(roomID, event string, payload interface{}, exceptID string) {
	data, err := Encode(event, payload)
	if err != nil {
		h.log.Errorf("%v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.broadcastToRoomExcept(roomID, data, exceptID)
}

func (h *Hub) broadcastToRoomExcept(roomID string, message []byte, excludeID string) {
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			if client.ID != excludeID {
				h.enqueue(client, message)
			}
		}
	}
}

func (h *Hub) enqueue(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.log.Warnf("client %s send channel full: %v", client.ID, ErrClientQueueFull)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
