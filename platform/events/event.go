// Package events carries the in-process event plumbing: the Event and
// Handler contracts plus the bus that connects them. Concrete domain
// events live with the modules that publish them.
package events

import (
	"context"
	"time"
)

// Event is anything a module can publish on the bus. The name keys
// subscription routing; the timestamp records publication time.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp half of the Event contract. Embed it
// and add an EventName method to get a publishable event.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a BaseEvent with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events delivered by the bus.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to the handlers subscribed under the
// event's name. Publish is fire-and-forget with handlers running
// concurrently; PublishSync runs them in subscription order and reports
// their combined errors.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
