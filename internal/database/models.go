package database

import (
	"time"
)

// ModuleRecord is the latest known status of a module
type ModuleRecord struct {
	ID           uint32     `gorm:"primaryKey" json:"id"`
	NameKey      string     `gorm:"uniqueIndex;not null" json:"-"` // lower-cased name for case-insensitive lookup
	Name         string     `gorm:"not null" json:"name"`
	State        string     `gorm:"not null" json:"state"`
	Path         string     `json:"path,omitempty"`
	DataPath     string     `json:"data_path,omitempty"`
	Version      string     `json:"version,omitempty"`
	Description  string     `json:"description,omitempty"`
	ErrorType    string     `json:"error_type,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	TypeCount    int        `json:"type_count"`
	RunID        string     `gorm:"index" json:"run_id"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ModuleHistory is one state transition of one module
type ModuleHistory struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	RunID        string    `gorm:"index;not null" json:"run_id"`
	Module       string    `gorm:"index;not null" json:"module"`
	State        string    `gorm:"not null" json:"state"`
	ErrorType    string    `json:"error_type,omitempty"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TypeRecord is a descriptor a module registered during its last successful load
type TypeRecord struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"index;not null" json:"run_id"`
	Module    string    `gorm:"index;not null" json:"module"`
	Category  string    `gorm:"index;not null" json:"category"`
	TypeID    string    `gorm:"not null" json:"type_id"`
	CreatedAt time.Time `json:"created_at"`
}
