package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var paid, freed []Event
	bus.Subscribe(RentalPaid, func(e Event) { paid = append(paid, e) })
	bus.Subscribe(MachineFreed, func(e Event) { freed = append(freed, e) })

	bus.Publish(Event{Type: RentalPaid, RentalID: "r1", MachineID: "m1"})
	bus.Publish(Event{Type: RentalCompleted, RentalID: "r1", MachineID: "m1"})
	bus.Publish(Event{Type: MachineFreed, MachineID: "m1"})

	assert.Len(t, paid, 1)
	assert.Equal(t, "r1", paid[0].RentalID)
	assert.Len(t, freed, 1)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: RentalCancelled, RentalID: "r1"})
	})
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus()
	var seen []string
	bus.SubscribeAll(func(e Event) { seen = append(seen, e.Type) })

	for _, typ := range []string{RentalPaid, RentalActivated, RentalCompleted, RentalCancelled, MachineFreed} {
		bus.Publish(Event{Type: typ})
	}
	assert.Equal(t, []string{RentalPaid, RentalActivated, RentalCompleted, RentalCancelled, MachineFreed}, seen)
}
