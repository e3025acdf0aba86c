// Package types provides the views exchanged through service interfaces
package types

import (
	"time"
)

// ModuleInfo is the externally visible status of a module
type ModuleInfo struct {
	Name        string     `json:"name"`
	State       string     `json:"state"`
	Path        string     `json:"path,omitempty"`
	DataPath    string     `json:"data_path,omitempty"`
	Version     string     `json:"version,omitempty"`
	Description string     `json:"description,omitempty"`
	ErrorType   string     `json:"error_type,omitempty"`
	Error       string     `json:"error,omitempty"`
	Types       []TypeInfo `json:"types"`
	HasLocale   bool       `json:"has_locale_callback"`
	HasUnload   bool       `json:"has_unload_callback"`
	RunID       string     `json:"run_id"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TypeInfo identifies a registered capability descriptor
type TypeInfo struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Module   string `json:"module"`
}

// LocaleInfo is a module's resolved locale table
type LocaleInfo struct {
	Module        string            `json:"module"`
	DefaultLocale string            `json:"default_locale"`
	Locale        string            `json:"locale"`
	Files         []string          `json:"files"`
	Entries       map[string]string `json:"entries"`
}

// HistoryEntry is one persisted state transition
type HistoryEntry struct {
	RunID        string    `json:"run_id"`
	Module       string    `json:"module"`
	State        string    `json:"state"`
	ErrorType    string    `json:"error_type,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	At           time.Time `json:"at"`
}

// ModuleStats summarizes the current run
type ModuleStats struct {
	RunID      string         `json:"run_id"`
	Attempted  int            `json:"attempted"`
	Active     int            `json:"active"`
	Rejected   int            `json:"rejected"`
	Failed     int            `json:"failed"`
	TypeCounts map[string]int `json:"type_counts"`
}
