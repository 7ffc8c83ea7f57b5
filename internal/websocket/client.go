package websocket

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame
	writeWait = 10 * time.Second

	sendBuffer = 256
)

type ClientMessageHandler interface {
	HandleMessage(connID string, msg *Message) error
	HandleDisconnect(connID string)
}

type ClientOptions struct {
	MaxMessageBytes int64
	PongWait        time.Duration
	PingInterval    time.Duration
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	opts ClientOptions

	// guarded by Hub.mu
	groups     map[string]bool
	registered chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, opts ClientOptions) *Client {
	return &Client{
		ID:         id,
		Conn:       conn,
		Send:       make(chan []byte, sendBuffer),
		Hub:        hub,
		opts:       opts,
		groups:     make(map[string]bool),
		registered: make(chan struct{}),
	}
}

// ReadPump reads frames until the connection fails. The handler sees the
// disconnect exactly once, before the client leaves the hub.
func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		handler.HandleDisconnect(c.ID)
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.opts.MaxMessageBytes)
	c.Conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warnf("client %s: %v", c.ID, err)
			}
			return
		}

		msg, err := decode(frame)
		if err != nil {
			c.Hub.log.Debugf("client %s: %v", c.ID, err)
			continue
		}

		if err := handler.HandleMessage(c.ID, msg); err != nil {
			c.Hub.log.Debugf("client %s: dropping %s: %v", c.ID, msg.Type, err)
		}
	}
}

// WritePump drains Send onto the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the queue
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(message); err != nil {
				return
			}

			n := len(c.Send)
			for i := 0; i < n; i++ {
				queued, ok := <-c.Send
				if !ok {
					return
				}
				if err := c.write(queued); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(message []byte) error {
	err := c.Conn.WriteMessage(websocket.TextMessage, message)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.Hub.log.Debugf("client %s write: %v", c.ID, err)
	}
	return err
}
