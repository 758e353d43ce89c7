// Package events carries change notifications emitted by the data-access
// layer after successful writes. Presentation-layer concerns (cache
// invalidation, page refresh) subscribe here instead of being baked into
// the services.
package events

import "go.uber.org/zap"

// Action describes what happened to an entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entity names for change notifications.
const (
	EntityDepartment = "department"
	EntityFaculty    = "faculty"
	EntityCourse     = "course"
	EntityStudent    = "student"
	EntityEnrollment = "enrollment"
	EntityMark       = "mark"
	EntityAttendance = "attendance"
)

// Event identifies one changed entity row.
type Event struct {
	Entity string
	ID     int64
	Action Action
}

// Publisher delivers change events to interested subscribers.
type Publisher interface {
	Publish(event Event)
}

// Subscriber receives change events.
type Subscriber interface {
	Notify(event Event)
}

// Bus fans events out to registered subscribers synchronously, in
// registration order. Delivery happens on the caller's goroutine; a
// subscriber must not block.
type Bus struct {
	subscribers []Subscriber
}

// NewBus constructs an event bus.
func NewBus(subscribers ...Subscriber) *Bus {
	return &Bus{subscribers: subscribers}
}

// Subscribe registers an additional subscriber.
func (b *Bus) Subscribe(s Subscriber) {
	if s != nil {
		b.subscribers = append(b.subscribers, s)
	}
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	for _, s := range b.subscribers {
		s.Notify(event)
	}
}

// NopPublisher discards events. Useful as a default in tests.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(Event) {}

// LogSubscriber writes each change event to the structured log.
type LogSubscriber struct {
	logger *zap.Logger
}

// NewLogSubscriber constructs a logging subscriber.
func NewLogSubscriber(logger *zap.Logger) *LogSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSubscriber{logger: logger}
}

// Notify implements Subscriber.
func (s *LogSubscriber) Notify(event Event) {
	s.logger.Info("entity_changed",
		zap.String("entity", event.Entity),
		zap.Int64("id", event.ID),
		zap.String("action", string(event.Action)),
	)
}
