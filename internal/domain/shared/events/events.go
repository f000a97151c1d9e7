package events

import "time"

// Event is a domain fact emitted by an aggregate.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events on an aggregate until the application
// layer drains them into the outbox.
type EventRecorder struct {
	pending []Event
}

func (r *EventRecorder) Record(e Event) {
	r.pending = append(r.pending, e)
}

func (r *EventRecorder) PendingEvents() []Event {
	return r.pending
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
