package pluginmodule

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// LoadedModule is a module whose entry point accepted the load. It owns the
// library handle; release runs the unload callback and closes the handle
// exactly once.
type LoadedModule struct {
	Name     string
	Path     string
	DataPath string
	Root     SearchRoot
	LoadedAt time.Time

	library   Library
	setLocale func(string)
	unload    func()
	release   sync.Once
}

// HasLocaleCallback reports whether the module exports a locale-set callback
func (m *LoadedModule) HasLocaleCallback() bool {
	return m.setLocale != nil
}

// HasUnloadCallback reports whether the module exports an unload callback
func (m *LoadedModule) HasUnloadCallback() bool {
	return m.unload != nil
}

// Release runs the unload callback, then closes the library handle
func (m *LoadedModule) Release(logger hclog.Logger) {
	m.release.Do(func() {
		if m.unload != nil {
			if err := callGuarded(m.unload); err != nil {
				logger.Error("module unload callback panicked", "module", m.Name, "error", err)
			}
		}
		if m.library != nil {
			if err := m.library.Close(); err != nil {
				logger.Warn("failed to close module library", "module", m.Name, "error", err)
			}
		}
	})
}

func callGuarded(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

// ModuleTable owns every active module in load order
type ModuleTable struct {
	logger hclog.Logger

	mu      sync.RWMutex
	modules []*LoadedModule
}

// NewModuleTable creates an empty table
func NewModuleTable(logger hclog.Logger) *ModuleTable {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModuleTable{logger: logger.Named("table")}
}

// Insert appends a module. Names are unique regardless of case.
func (t *ModuleTable) Insert(m *LoadedModule) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.findLocked(m.Name) != nil {
		return obserrors.RegistryError("register_loaded", obserrors.ErrAlreadyLoaded).WithModule(m.Name)
	}
	t.modules = append(t.modules, m)
	return nil
}

// Find returns a module by case-insensitive name
func (t *ModuleTable) Find(name string) (*LoadedModule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := t.findLocked(name)
	return m, m != nil
}

func (t *ModuleTable) findLocked(name string) *LoadedModule {
	for _, m := range t.modules {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// FindDataFile joins a module's data directory with file and returns the
// result when it exists.
func (t *ModuleTable) FindDataFile(module, file string) (string, bool) {
	m, ok := t.Find(module)
	if !ok {
		return "", false
	}
	return dataFile(m.DataPath, file)
}

// localDataPath reports whether file, joined to a data directory, stays
// inside it
func localDataPath(file string) bool {
	return filepath.IsLocal(filepath.FromSlash(file))
}

func dataFile(dataPath, file string) (string, bool) {
	if !localDataPath(file) {
		return "", false
	}
	path := filepath.Join(filepath.FromSlash(dataPath), filepath.FromSlash(file))
	if !fileExists(path) {
		return "", false
	}
	return path, true
}

// Names returns module names in load order
func (t *ModuleTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, len(t.modules))
	for i, m := range t.modules {
		names[i] = m.Name
	}
	return names
}

// Modules returns the active modules in load order
func (t *ModuleTable) Modules() []*LoadedModule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*LoadedModule(nil), t.modules...)
}

// Len returns the number of active modules
func (t *ModuleTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.modules)
}

// UnloadAll drains the table in load order, releasing every module. It
// returns the names that were unloaded.
func (t *ModuleTable) UnloadAll() []string {
	t.mu.Lock()
	modules := t.modules
	t.modules = nil
	t.mu.Unlock()

	names := make([]string, 0, len(modules))
	for _, m := range modules {
		m.Release(t.logger)
		t.logger.Debug("module unloaded", "module", m.Name)
		names = append(names, m.Name)
	}
	return names
}
