package services

import (
	"context"

	"github.com/david50407/obs-studio/internal/types"
)

// Service names used with the registry
const (
	ModuleServiceName  = "modules"
	HistoryServiceName = "history"
)

// ModuleService exposes the module core to the API and CLI
type ModuleService interface {
	// ListModules returns every module a load was attempted for
	ListModules(ctx context.Context) ([]types.ModuleInfo, error)

	// GetModule returns one module by case-insensitive name
	GetModule(ctx context.Context, name string) (*types.ModuleInfo, error)

	// LoadModule loads a module that was not loaded yet
	LoadModule(ctx context.Context, name string) (*types.ModuleInfo, error)

	// ListTypes returns registered descriptors, optionally of one category
	ListTypes(ctx context.Context, category string) ([]types.TypeInfo, error)

	// FindModuleFile resolves a file in a loaded module's data directory
	FindModuleFile(ctx context.Context, module, file string) (string, error)

	// GetLocale builds a module's locale table
	GetLocale(ctx context.Context, module, defaultLocale, locale string) (*types.LocaleInfo, error)

	// GetStats summarizes the current run
	GetStats(ctx context.Context) (*types.ModuleStats, error)
}

// HistoryService reads persisted load history
type HistoryService interface {
	// History returns the newest transitions first, optionally for one module
	History(ctx context.Context, module string, limit int) ([]types.HistoryEntry, error)
}
