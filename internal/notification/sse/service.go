// Package sse provides Server-Sent Events support for real-time updates.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"

	"lckr_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// EventType represents different types of SSE events
type EventType string

const (
	// Location input session events (pushed to the page driving a session)
	EventValueChanged      EventType = "value_changed"
	EventFocused           EventType = "focused"
	EventLocationCommitted EventType = "location_committed"
	EventSessionClosed     EventType = "session_closed"

	// Listing events (pushed to editors watching a listing)
	EventListingLocationUpdated EventType = "listing_location_updated"
)

// Event represents an SSE event payload
type Event struct {
	Type    EventType   `json:"type"`
	Topic   string      `json:"topic,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Subscription is a client registered for one topic.
type Subscription struct {
	topic  string
	events chan Event
}

// Events returns the subscription's event channel. It is closed on
// Unsubscribe or Close.
func (sub *Subscription) Events() <-chan Event {
	return sub.events
}

// Service manages SSE connections and event broadcasting. Clients subscribe
// to a topic, e.g. a location input session ID or "listing:<id>".
type Service struct {
	mu      sync.RWMutex
	clients map[string][]*Subscription // topic -> clients
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[string][]*Subscription),
		log:     log,
	}
}

// ListingTopic is the topic editors of a listing subscribe to.
func ListingTopic(listingID string) string {
	return "listing:" + listingID
}

// Subscribe registers a client for topic.
func (s *Service) Subscribe(topic string) *Subscription {
	c := &Subscription{
		topic:  topic,
		events: make(chan Event, 32),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[topic] = append(s.clients[topic], c)
	return c
}

// Unsubscribe unregisters a client and closes its channel.
func (s *Service) Unsubscribe(c *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.topic]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.topic] = append(clients[:i], clients[i+1:]...)
			close(c.events)
			break
		}
	}
	if len(s.clients[c.topic]) == 0 {
		delete(s.clients, c.topic)
	}
}

// Publish sends an event to every client subscribed to topic. Slow clients
// lose events rather than block the publisher.
func (s *Service) Publish(topic string, event Event) {
	event.Topic = topic

	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.clients[topic]
	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse event buffer full", "topic", topic, "type", event.Type)
		}
	}

	s.log.Debug("sse event published", "topic", topic, "type", event.Type, "clients", len(clients))
}

// ClientCount returns the number of clients subscribed to topic.
func (s *Service) ClientCount(topic string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[topic])
}

// Handler returns a Gin handler for SSE connections. getTopic resolves the
// topic from the request; ok=false answers 404.
func (s *Service) Handler(getTopic func(*gin.Context) (string, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		topic, ok := getTopic(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
			return
		}

		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := s.Subscribe(topic)
		defer s.Unsubscribe(cl)

		c.SSEvent("connected", gin.H{"topic": topic})
		c.Writer.Flush()

		s.log.Debug("sse client connected", "topic", topic)

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", "topic", topic)
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Error("sse event encode failed", "topic", topic, "error", err)
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
				if event.Type == EventSessionClosed {
					return
				}
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[string][]*Subscription)
}
