package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"crankslist/internal/unread"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// CountFunc runs a fresh unread-count query for the client's inbox.
type CountFunc func(email string) (int64, error)

// Client is a middleman between one websocket connection and the hub. Each
// connection carries its own recount sequencer, so a burst of notifications
// collapses safely even when count queries overlap.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// Recipient email derived from authentication.
	Email string

	// Fresh-count query, injected by the handler.
	Count CountFunc

	tracker *unread.Tracker

	// Guards Send against writes after teardown. Recounts run in their
	// own goroutines and may race the hub closing the channel.
	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, email string, count CountFunc) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		Email:   email,
		Count:   count,
		tracker: unread.NewTracker(),
	}
}

// clientMessage is the only inbound payload: an explicit recount request.
type clientMessage struct {
	Type string `json:"type"`
}

// unreadEvent is pushed to the peer after every applied recount.
type unreadEvent struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// Recount runs a fresh unread-count query and pushes the result, unless a
// newer recount already completed. Read failures degrade to keeping the
// previous total.
func (c *Client) Recount() {
	seq := c.tracker.Begin()

	count, err := c.Count(c.Email)
	if err != nil {
		log.Printf("Error recounting inbox for %s: %v", c.Email, err)
		return
	}

	applied, fresh := c.tracker.Complete(seq, count)
	if !fresh {
		return
	}

	payload, _ := json.Marshal(unreadEvent{Type: "unread_count", Count: applied})
	c.push(payload)
}

// push queues a payload for WritePump unless the client has been torn down.
// Drops the payload on a slow consumer; the next notification will carry a
// newer total anyway.
func (c *Client) push(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// shutdown closes Send exactly once. Only the hub calls this, from its
// unregister path.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "recount" {
			go c.Recount()
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
