package events

import (
	"context"
	"time"
)

// Event codes published by the annotation service.
const (
	AnnotationShared = "ANNOTATION_SHARED"
)

// SubjectPrefix namespaces every event subject on the bus.
const SubjectPrefix = "events."

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ANNOTATION_SHARED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event of type eventType is published on.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// Handler processes one event. Returning an error asks the bus to redeliver.
type Handler func(ctx context.Context, event Event) error

// Publisher sends events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Subscriber delivers events published on subject to handler.
type Subscriber interface {
	Subscribe(subject string, durableName string, handler Handler) error
	Close()
}
