package ws

import (
	"log"
	"sync"
)

// Hub maintains the set of live inbox subscriptions and fans change
// notifications out to the clients watching a given recipient email. Every
// notification triggers a fresh recount on the client side, never an
// incremental update, so multiple open views of the same inbox cannot
// drift apart.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Inbox change notifications, keyed by recipient email.
	Notify chan string

	// Map to quickly find clients by recipient email.
	emailClients map[string][]*Client

	// Mutex to protect the emailClients map
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:     make(chan *Client),
		Unregister:   make(chan *Client),
		Notify:       make(chan string, 64),
		clients:      make(map[*Client]bool),
		emailClients: make(map[string][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.subscribe(client)
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.shutdown()
				h.unsubscribe(client)
			}
		case email := <-h.Notify:
			h.notifySubscribers(email)
		}
	}
}

// NotifyInbox signals that a message addressed to email was inserted or
// updated. Safe to call from any goroutine; drops the signal when the hub
// is saturated, which is tolerable because the next change re-triggers a
// recount anyway.
func (h *Hub) NotifyInbox(email string) {
	select {
	case h.Notify <- email:
	default:
		log.Printf("Inbox notify channel full, dropping signal for %s", email)
	}
}

// subscribe registers a client under its recipient email and pushes an
// initial recount so a freshly mounted view starts from the real total.
func (h *Hub) subscribe(client *Client) {
	h.mutex.Lock()
	h.emailClients[client.Email] = append(h.emailClients[client.Email], client)
	count := len(h.emailClients[client.Email])
	h.mutex.Unlock()

	log.Printf("Inbox subscription for %s opened. Total connections for inbox: %d", client.Email, count)

	go client.Recount()
}

// unsubscribe removes a client from the email map. Failing to do this on
// teardown would leak the subscription for the process lifetime.
func (h *Hub) unsubscribe(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns := h.emailClients[client.Email]
	for i, conn := range conns {
		if conn == client {
			h.emailClients[client.Email] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.emailClients[client.Email]) == 0 {
		delete(h.emailClients, client.Email)
	}
	log.Printf("Inbox subscription for %s closed", client.Email)
}

func (h *Hub) notifySubscribers(email string) {
	h.mutex.Lock()
	subscribers := append([]*Client(nil), h.emailClients[email]...)
	h.mutex.Unlock()

	for _, client := range subscribers {
		go client.Recount()
	}
}

// HasSubscribers reports whether any live connection is watching the inbox.
func (h *Hub) HasSubscribers(email string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.emailClients[email]) > 0
}
