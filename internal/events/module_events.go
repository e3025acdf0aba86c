package events

import (
	"fmt"
	"time"
)

// ModuleStateData represents data for module lifecycle events
type ModuleStateData struct {
	Module    string    `json:"module"`
	State     string    `json:"state"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorType string    `json:"error_type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewModuleStateEvent creates a lifecycle event for a module state transition
func NewModuleStateEvent(eventType EventType, data ModuleStateData, runID string) Event {
	priority := PriorityNormal
	message := fmt.Sprintf("module '%s' %s", data.Module, data.State)
	if data.Error != "" {
		priority = PriorityHigh
		message = fmt.Sprintf("module '%s' %s: %s", data.Module, data.State, data.Error)
	}

	payload := map[string]interface{}{
		"state": data.State,
	}
	if data.Path != "" {
		payload["path"] = data.Path
	}
	if data.Error != "" {
		payload["error"] = data.Error
		payload["error_type"] = data.ErrorType
	}

	return Event{
		Type:      eventType,
		Source:    fmt.Sprintf("module:%s", data.Module),
		Module:    data.Module,
		RunID:     runID,
		Message:   message,
		Data:      payload,
		Priority:  priority,
		Timestamp: data.Timestamp,
	}
}

// NewDescriptorRejectedEvent creates an event for a dropped registration
func NewDescriptorRejectedEvent(module, category, id, reason string) Event {
	return Event{
		Type:    EventDescriptorRejected,
		Source:  "registry",
		Module:  module,
		Message: fmt.Sprintf("%s '%s' rejected: %s", category, id, reason),
		Data: map[string]interface{}{
			"category": category,
			"id":       id,
			"reason":   reason,
		},
		Priority: PriorityHigh,
	}
}

// NewModuleDiscoveredEvent creates an event for a module binary found by a rescan
func NewModuleDiscoveredEvent(module string) Event {
	return Event{
		Type:     EventModuleDiscovered,
		Source:   "watcher",
		Module:   module,
		Message:  fmt.Sprintf("module '%s' discovered", module),
		Priority: PriorityLow,
	}
}
