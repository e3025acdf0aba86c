package sdk

import (
	"sync"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

// ModuleLocale holds one module's active locale table. A module keeps one in
// a package variable, calls SetLocale from ObsModuleSetLocale and Free from
// ObsModuleUnload.
type ModuleLocale struct {
	module        string
	defaultLocale string

	mu    sync.RWMutex
	table *pluginmodule.LocaleTable
}

// NewModuleLocale creates a locale holder for module using en-US as the
// default locale
func NewModuleLocale(module string) *ModuleLocale {
	return NewModuleLocaleWithDefault(module, DefaultLocale)
}

// NewModuleLocaleWithDefault creates a locale holder with a different
// default locale
func NewModuleLocaleWithDefault(module, defaultLocale string) *ModuleLocale {
	return &ModuleLocale{module: module, defaultLocale: defaultLocale}
}

// SetLocale replaces the active table with one for locale
func (l *ModuleLocale) SetLocale(locale string) {
	table := pluginmodule.LoadLocale(l.module, l.defaultLocale, locale)

	l.mu.Lock()
	l.table = table
	l.mu.Unlock()
}

// Text returns the localized string for key, or key when no table is loaded
// or the key is missing
func (l *ModuleLocale) Text(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table.Text(key)
}

// Get returns the localized string for key and whether it exists
func (l *ModuleLocale) Get(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table.Get(key)
}

// Free drops the active table
func (l *ModuleLocale) Free() {
	l.mu.Lock()
	l.table = nil
	l.mu.Unlock()
}
