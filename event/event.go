// Package event implements the in-process event bus that carries domain
// events from the services to notification and broker subscribers.
package event

import (
	"encoding/json"
	"time"
)

// EventType defines event types.
type EventType string

const (
	EventTypeTaskCreated     EventType = "task.created"
	EventTypeRequestCreated  EventType = "request.created"
	EventTypeRequestAssigned EventType = "request.assigned"
	EventTypeRequestApproved EventType = "request.approved"
	EventTypeRequestRejected EventType = "request.rejected"
	EventTypeStaffRegistered EventType = "staff.registered"
	EventTypeStaffVerified   EventType = "staff.verified"

	// EventTypeAll subscribes a handler to every event.
	EventTypeAll EventType = "*"
)

// Event represents a domain event.
type Event struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	AggregateID   string            `json:"aggregate_id,omitempty"`
	AggregateName string            `json:"aggregate_name,omitempty"`
	Payload       map[string]any    `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// PayloadString returns a string payload value, or "" when absent.
func (e *Event) PayloadString(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// MarshalEvent marshals an event to JSON.
func MarshalEvent(event *Event) ([]byte, error) {
	return json.Marshal(event)
}

// UnmarshalEvent unmarshals an event from JSON.
func UnmarshalEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
