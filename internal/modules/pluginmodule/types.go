package pluginmodule

import (
	"time"
)

// ModuleState is a step of the per-module load state machine
type ModuleState string

// Terminal reports whether no further load transition follows this state
func (s ModuleState) Terminal() bool {
	switch s {
	case StateActive, StateRejected, StateFailed, StateUnloaded:
		return true
	}
	return false
}

// SearchRoot is a (binary dir, data dir) template pair scanned for modules.
// Both templates may contain ModulePlaceholder.
type SearchRoot struct {
	Bin  string `json:"bin"`
	Data string `json:"data"`
}

// ModuleStatus is the last known load outcome of a module
type ModuleStatus struct {
	Name        string      `json:"name"`
	State       ModuleState `json:"state"`
	Path        string      `json:"path,omitempty"`
	DataPath    string      `json:"data_path,omitempty"`
	Version     string      `json:"version,omitempty"`
	Description string      `json:"description,omitempty"`
	ErrorType   string      `json:"error_type,omitempty"`
	Error       string      `json:"error,omitempty"`
	Types       []TypeInfo  `json:"types,omitempty"`
	RunID       string      `json:"run_id"`
	LoadedAt    *time.Time  `json:"loaded_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TypeInfo identifies one registered descriptor
type TypeInfo struct {
	Category Category `json:"category"`
	ID       string   `json:"id"`
	Module   string   `json:"module"`
}

// LoadResult is the outcome of one module in a batch load
type LoadResult struct {
	Name  string      `json:"name"`
	State ModuleState `json:"state"`
	Err   error       `json:"-"`
}

// StatusRecorder persists module status transitions
type StatusRecorder interface {
	RecordStatus(status ModuleStatus) error
	RecordTypes(runID, module string, types []TypeInfo) error
}
