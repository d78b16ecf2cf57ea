package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one message on the live feed
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client is a connected stream
type Client struct {
	ID     string
	Events chan Event
	filter map[string]bool // nil means every type
}

func (c *Client) wants(eventType string) bool {
	return c.filter == nil || c.filter[eventType]
}

// Hub fans engine events out to connected admin streams. Slow clients lose events rather than
// stalling the publisher.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	stopped   bool
	broadcast chan Event
	shutdown  chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewHub creates a hub; call Start before broadcasting
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		broadcast: make(chan Event, BroadcastBufferSize),
		shutdown:  make(chan struct{}),
	}
}

// Start launches the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client stream
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		h.stopped = true
		for id, client := range h.clients {
			close(client.Events)
			delete(h.clients, id)
		}
		h.mu.Unlock()
		slog.Info(LogMsgHubStopped)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case evt := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.wants(evt.Type) {
					continue
				}
				select {
				case client.Events <- evt:
				default:
					slog.Debug(LogMsgEventDropped, "client_id", client.ID, "type", evt.Type)
				}
			}
			h.mu.RUnlock()
		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client that receives the given event types, or every type when none are
// given. It fails once the hub is stopped.
func (h *Hub) Register(eventTypes []string) (*Client, error) {
	client := &Client{
		ID:     uuid.NewString(),
		Events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		client.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.filter[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil, fmt.Errorf("%s", ErrMsgHubStopped)
	}
	h.clients[client.ID] = client
	return client, nil
}

// Unregister removes a client and closes its stream
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
	}
}

// Broadcast queues an event for every interested client without blocking
func (h *Hub) Broadcast(eventType string, payload any) {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
	select {
	case h.broadcast <- evt:
	default:
		slog.Warn(LogMsgEventDropped, "type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	msg := ""
	if evt.ID != "" {
		msg += "id: " + evt.ID + "\n"
	}
	msg += "event: " + evt.Type + "\n"
	msg += "data: " + string(data) + "\n\n"
	return []byte(msg), nil
}
