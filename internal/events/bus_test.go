package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishFiltersByType(t *testing.T) {
	bus := NewBus(nil)

	var got []Event
	_, cancel := bus.Subscribe(EventFilter{Types: []EventType{EventModuleActive}}, func(e Event) {
		got = append(got, e)
	})
	defer cancel()

	bus.Publish(NewModuleStateEvent(EventModuleLoading, ModuleStateData{Module: "obs-ffmpeg", State: "loading"}, "run-1"))
	bus.Publish(NewModuleStateEvent(EventModuleActive, ModuleStateData{Module: "obs-ffmpeg", State: "active"}, "run-1"))

	require.Len(t, got, 1)
	assert.Equal(t, EventModuleActive, got[0].Type)
	assert.Equal(t, "run-1", got[0].RunID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, int64(2), bus.Published())
}

func TestBusFilterModulesCaseInsensitive(t *testing.T) {
	bus := NewBus(nil)

	count := 0
	bus.Subscribe(EventFilter{Modules: []string{"MyEnc"}}, func(Event) { count++ })

	bus.Publish(Event{Type: EventModuleActive, Module: "myenc"})
	bus.Publish(Event{Type: EventModuleActive, Module: "other"})

	assert.Equal(t, 1, count)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil)

	count := 0
	_, cancel := bus.Subscribe(EventFilter{}, func(Event) { count++ })
	bus.Publish(Event{Type: EventModuleActive})
	cancel()
	bus.Publish(Event{Type: EventModuleActive})

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestBusHandlerPanicIsContained(t *testing.T) {
	bus := NewBus(nil)

	delivered := false
	bus.Subscribe(EventFilter{}, func(Event) { panic("boom") })
	bus.Subscribe(EventFilter{}, func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(Event{Type: EventModuleFailed}) })
	assert.True(t, delivered)
}

func TestBusRecentIsBounded(t *testing.T) {
	bus := NewBus(nil)

	for i := 0; i < DefaultHistorySize+10; i++ {
		bus.Publish(Event{Type: EventModuleActive, Module: "m"})
	}
	bus.Publish(NewDescriptorRejectedEvent("m", "output", "rtmp_output", "missing start"))

	all := bus.Recent(EventFilter{})
	assert.Len(t, all, DefaultHistorySize)

	rejected := bus.Recent(EventFilter{Types: []EventType{EventDescriptorRejected}})
	require.Len(t, rejected, 1)
	assert.Equal(t, "output", rejected[0].Data["category"])
}

func TestGlobalEventBus(t *testing.T) {
	prev := GetGlobalEventBus()
	t.Cleanup(func() { SetGlobalEventBus(prev) })

	bus := NewBus(nil)
	SetGlobalEventBus(bus)
	assert.Same(t, bus, GetGlobalEventBus())

	SetGlobalEventBus(nil)
	assert.NotNil(t, GetGlobalEventBus())
	assert.NotSame(t, bus, GetGlobalEventBus())
}
