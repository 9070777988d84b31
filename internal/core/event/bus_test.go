package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingEvent struct{ n int }
type otherEvent struct{}

func TestEventsNotDeliveredUntilSwap(t *testing.T) {
	bus := NewBus()
	var got []int
	Subscribe(bus, func(ev pingEvent) { got = append(got, ev.n) })

	Emit(bus, pingEvent{1})
	Emit(bus, pingEvent{2})
	bus.DispatchAll()
	assert.Empty(t, got, "back buffer is not visible until the swap")

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	// The next swap clears them; nothing is delivered twice.
	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)
}

func TestDispatchRoutesByConcreteType(t *testing.T) {
	bus := NewBus()
	pings, others := 0, 0
	Subscribe(bus, func(pingEvent) { pings++ })
	Subscribe(bus, func(otherEvent) { others++ })

	Emit(bus, pingEvent{})
	bus.SwapBuffers()
	bus.DispatchAll()

	assert.Equal(t, 1, pings)
	assert.Zero(t, others)
}
