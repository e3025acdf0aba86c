// Package events carries module lifecycle notifications to in-process subscribers.
package events

import (
	"time"
)

// EventType represents the type of event
type EventType string

// Module lifecycle events
const (
	EventModuleLocating     EventType = "module.locating"
	EventModuleLoading      EventType = "module.loading"
	EventModuleInitializing EventType = "module.initializing"
	EventModuleActive       EventType = "module.active"
	EventModuleRejected     EventType = "module.rejected"
	EventModuleFailed       EventType = "module.failed"
	EventModuleUnloaded     EventType = "module.unloaded"

	// Registry and discovery events
	EventDescriptorRejected EventType = "descriptor.rejected"
	EventModuleDiscovered   EventType = "module.discovered"
	EventLocaleMissing      EventType = "locale.missing"
)

// EventPriority represents the priority level of an event
type EventPriority int

const (
	PriorityLow      EventPriority = 1
	PriorityNormal   EventPriority = 5
	PriorityHigh     EventPriority = 10
	PriorityCritical EventPriority = 20
)

// Event represents a module core event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"` // module:<name>, registry, watcher
	Module    string                 `json:"module,omitempty"`
	RunID     string                 `json:"run_id,omitempty"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Priority  EventPriority          `json:"priority"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler represents a function that handles events
type EventHandler func(event Event)

// EventFilter represents filters for event subscriptions
type EventFilter struct {
	Types   []EventType `json:"types,omitempty"`
	Modules []string    `json:"modules,omitempty"`
}

// Matches reports whether the event passes the filter. Empty lists match everything.
func (f EventFilter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Modules) > 0 {
		for _, m := range f.Modules {
			if equalFold(m, event.Module) {
				return true
			}
		}
		return false
	}

	return true
}

// Subscription represents an event subscription
type Subscription struct {
	ID      string
	Filter  EventFilter
	Handler EventHandler
	Created time.Time
}
