package socket

import (
	"context"
	"encoding/json"
	"time"

	"dashboard/internal/notify"
	"dashboard/pkg/logger"
	"dashboard/pkg/metrics"
)

const (
	HelloType  = "HELLO"  // Sent once after a subscriber registers
	ChangeType = "CHANGE" // A note or event was written
)

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Hello struct {
	Authenticated bool      `json:"authenticated"`
	ServerTime    time.Time `json:"server_time"`
}

// Hub owns the subscriber set. Only Run touches it; everything else talks to
// the hub through its channels.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan notify.Change
	Register   chan *Client
	Unregister chan *Client
	stopped    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan notify.Change, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.Register:
			h.clients[client] = true
			metrics.Subscribers.Set(float64(len(h.clients)))

			hello, _ := json.Marshal(Hello{Authenticated: client.Viewer.Authenticated, ServerTime: time.Now().UTC()})
			msg, _ := json.Marshal(WSMessage{Type: HelloType, Payload: hello})
			client.Send <- msg

		case client := <-h.Unregister:
			h.remove(client)

		case change := <-h.Broadcast:
			payload, err := json.Marshal(change)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling change: %v", err)
				continue
			}
			msg, _ := json.Marshal(WSMessage{Type: ChangeType, Payload: payload})

			for client := range h.clients {
				// Secret changes only reach authenticated subscribers.
				if change.Secret && !client.Viewer.Authenticated {
					continue
				}
				select {
				case client.Send <- msg:
				default:
					logger.Sugar.Warnf("Subscriber %s send buffer is full. Unregistering.", client.name())
					h.remove(client)
				}
			}
		}
	}
}

// Publish queues a change for delivery. A full queue or a stopped hub drops
// the change; writes never wait on subscribers.
func (h *Hub) Publish(_ context.Context, c notify.Change) {
	select {
	case <-h.stopped:
		return
	default:
	}
	select {
	case h.Broadcast <- c:
	default:
		logger.Sugar.Warnf("Hub backlog full, dropping %s %s change for id %d", c.Entity, c.Action, c.ID)
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	metrics.Subscribers.Set(float64(len(h.clients)))
}
