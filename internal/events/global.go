package events

import (
	"sync"
)

var (
	globalBus     *Bus
	globalBusLock sync.RWMutex
)

// SetGlobalEventBus sets the global event bus instance
func SetGlobalEventBus(bus *Bus) {
	globalBusLock.Lock()
	defer globalBusLock.Unlock()
	globalBus = bus
}

// GetGlobalEventBus returns the global event bus instance, creating one on first use
func GetGlobalEventBus() *Bus {
	globalBusLock.RLock()
	bus := globalBus
	globalBusLock.RUnlock()
	if bus != nil {
		return bus
	}

	globalBusLock.Lock()
	defer globalBusLock.Unlock()
	if globalBus == nil {
		globalBus = NewBus(nil)
	}
	return globalBus
}
