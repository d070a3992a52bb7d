package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventServiceCreated       = "service_created"
	EventServiceUpdated       = "service_updated"
	EventServiceDeleted       = "service_deleted"
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingDeleted       = "booking_deleted"
)

// ServiceEventPayload is the minimal service snapshot for event consumers.
type ServiceEventPayload struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name,omitempty"`
}

// BookingEventPayload is the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID string `json:"booking_id"`
	ServiceID string `json:"service_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Event is a lightweight domain event.
type Event struct {
	Type       string
	Payload    []byte
	OccurredAt time.Time
}

// Handler reacts to an event.
type Handler func(event *Event) error

// Bus provides in-process pub/sub for events. Handlers run synchronously on
// the publishing goroutine; a failing handler never fails the publish.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// PublishJSON serializes the payload and notifies subscribers of the type.
// A nil bus is a no-op so callers never have to guard publishing.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := &Event{Type: eventType, Payload: raw, OccurredAt: time.Now()}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[eventType]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(event)
	}
	return nil
}
