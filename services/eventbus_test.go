// file: services/eventbus_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_Dispatch(t *testing.T) {
	bus := NewEventBus()

	var got []interface{}
	bus.Subscribe("a", func(payload interface{}) { got = append(got, payload) })

	bus.Emit("a", 1)
	bus.Emit("a", 2)

	assert.Equal(t, []interface{}{1, 2}, got)
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	count := 0
	bus.Subscribe("x", func(interface{}) { count++ })
	bus.Subscribe("x", func(interface{}) { count++ })

	bus.Emit("x", nil)
	assert.Equal(t, 2, count)
}

func TestEventBus_UnknownEventIsNoop(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() { bus.Emit("nobody-listens", nil) })
}

func TestEventBus_EventsAreIsolated(t *testing.T) {
	bus := NewEventBus()

	aCount, bCount := 0, 0
	bus.Subscribe("a", func(interface{}) { aCount++ })
	bus.Subscribe("b", func(interface{}) { bCount++ })

	bus.Emit("a", nil)
	assert.Equal(t, 1, aCount)
	assert.Equal(t, 0, bCount)
}
