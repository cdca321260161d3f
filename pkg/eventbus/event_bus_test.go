package eventbus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type createdEvent struct {
	ID int
}

type deletedEvent struct {
	ID int
}

func TestPublish_DeliversToMatchingSubscribers(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var created []createdEvent
	var deleted []deletedEvent
	bus.Subscribe(func(e createdEvent) { created = append(created, e) })
	bus.Subscribe(func(e deletedEvent) { deleted = append(deleted, e) })

	bus.Publish(createdEvent{ID: 1})
	bus.Publish(createdEvent{ID: 2})
	bus.Publish(deletedEvent{ID: 3})

	require.Len(t, created, 2)
	require.Len(t, deleted, 1)
	require.Equal(t, 3, deleted[0].ID)
}

func TestPublish_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var received int
	bus.Subscribe(func(e createdEvent) { panic("boom") })
	bus.Subscribe(func(e createdEvent) { received++ })

	require.NotPanics(t, func() {
		bus.Publish(createdEvent{ID: 1})
	})
	require.Equal(t, 1, received)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var received int
	handler := func(e createdEvent) { received++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())

	bus.Publish(createdEvent{ID: 1})
	require.Equal(t, 0, received)
}

func TestSubscribe_RejectsNonFunction(t *testing.T) {
	bus := NewEventPublisher(logrus.New())
	require.Panics(t, func() {
		bus.Subscribe("not a function")
	})
}

func TestClear(t *testing.T) {
	bus := NewEventPublisher(logrus.New())
	bus.Subscribe(func(e createdEvent) {})
	bus.Subscribe(func(e deletedEvent) {})
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}
