package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type collectingSubscriber struct {
	received []Event
}

func (c *collectingSubscriber) Notify(event Event) {
	c.received = append(c.received, event)
}

func TestBusFansOutInOrder(t *testing.T) {
	first := &collectingSubscriber{}
	second := &collectingSubscriber{}
	bus := NewBus(first)
	bus.Subscribe(second)

	event := Event{Entity: EntityStudent, ID: 7, Action: ActionCreated}
	bus.Publish(event)

	assert.Equal(t, []Event{event}, first.received)
	assert.Equal(t, []Event{event}, second.received)
}

func TestBusIgnoresNilSubscriber(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(nil)

	assert.NotPanics(t, func() {
		bus.Publish(Event{Entity: EntityCourse, ID: 1, Action: ActionDeleted})
	})
}

func TestNilBusPublishIsSafe(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(Event{Entity: EntityMark, ID: 1, Action: ActionUpdated})
	})
}
