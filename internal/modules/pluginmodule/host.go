package pluginmodule

import (
	"sync"
)

var (
	defaultManager   *ModuleManager
	defaultManagerMu sync.RWMutex
)

// Default returns the process-wide module manager. Modules reach the host
// through it while their entry point runs.
func Default() *ModuleManager {
	defaultManagerMu.RLock()
	m := defaultManager
	defaultManagerMu.RUnlock()
	if m != nil {
		return m
	}

	defaultManagerMu.Lock()
	defer defaultManagerMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewModuleManager(ManagerOptions{})
	}
	return defaultManager
}

// SetDefault installs m as the process-wide module manager and returns the
// previous one
func SetDefault(m *ModuleManager) *ModuleManager {
	defaultManagerMu.Lock()
	defer defaultManagerMu.Unlock()
	prev := defaultManager
	defaultManager = m
	return prev
}

// AddSearchRoot appends a search root to the default manager
func AddSearchRoot(bin, data string) {
	Default().AddSearchRoot(bin, data)
}

// LoadModule loads a module into the default manager
func LoadModule(name string) error {
	return Default().LoadModule(name)
}

// FindModuleFile resolves a file in a loaded module's data directory
func FindModuleFile(module, file string) (string, bool) {
	return Default().FindModuleFile(module, file)
}

// LoadLocale builds a module's locale table
func LoadLocale(module, defaultLocale, locale string) *LocaleTable {
	return Default().LoadLocale(module, defaultLocale, locale)
}

// UnloadAll unloads every module of the default manager
func UnloadAll() {
	Default().UnloadAll()
}

// RegisterSource registers a source with the default manager
func RegisterSource(info *SourceInfo, size uintptr) error {
	return Default().Registry().RegisterSource(info, size)
}

// RegisterOutput registers an output with the default manager
func RegisterOutput(info *OutputInfo, size uintptr) error {
	return Default().Registry().RegisterOutput(info, size)
}

// RegisterEncoder registers an encoder with the default manager
func RegisterEncoder(info *EncoderInfo, size uintptr) error {
	return Default().Registry().RegisterEncoder(info, size)
}

// RegisterService registers a service with the default manager
func RegisterService(info *ServiceInfo, size uintptr) error {
	return Default().Registry().RegisterService(info, size)
}

// RegisterModalUI registers a modal UI hook with the default manager
func RegisterModalUI(info *ModalUI, size uintptr) error {
	return Default().Registry().RegisterModalUI(info, size)
}

// RegisterModelessUI registers a modeless UI hook with the default manager
func RegisterModelessUI(info *ModelessUI, size uintptr) error {
	return Default().Registry().RegisterModelessUI(info, size)
}
