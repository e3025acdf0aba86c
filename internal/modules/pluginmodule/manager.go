package pluginmodule

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	obserrors "github.com/david50407/obs-studio/internal/errors"
	"github.com/david50407/obs-studio/internal/events"
)

// ManagerOptions configures a ModuleManager
type ManagerOptions struct {
	Opener        Opener
	Extension     string
	APIVersion    uint32
	Locale        string
	DefaultLocale string
	Logger        hclog.Logger
	Recorder      StatusRecorder
	Events        *events.Bus
}

// ModuleManager drives modules through locate, open and initialize, and owns
// the registry, module table and locale loader they feed.
type ModuleManager struct {
	logger hclog.Logger
	runID  string

	locator     *ModuleLocator
	opener      Opener
	initializer *ModuleInitializer
	registry    *TypeRegistry
	table       *ModuleTable
	locales     *LocaleLoader
	manifests   *ManifestParser
	recorder    StatusRecorder
	bus         *events.Bus

	locale        string
	defaultLocale string

	// loadMu serializes loads so one module initializes fully before the next
	loadMu sync.Mutex
	// loading is the module whose entry point is running, if any
	loading atomic.Pointer[LoadedModule]

	mu       sync.RWMutex
	statuses map[string]*ModuleStatus
}

// NewModuleManager creates a manager with no search roots
func NewModuleManager(opts ManagerOptions) *ModuleManager {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.Opener == nil {
		opts.Opener = GoPluginOpener{}
	}
	if opts.APIVersion == 0 {
		opts.APIVersion = APIVersion
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = DefaultLocale
	}
	if opts.Locale == "" {
		opts.Locale = opts.DefaultLocale
	}
	if opts.Events == nil {
		opts.Events = events.NewBus(logger)
	}

	table := NewModuleTable(logger)
	m := &ModuleManager{
		logger:        logger.Named("modules"),
		runID:         uuid.NewString(),
		locator:       NewModuleLocator(NewPathResolver(opts.Extension), logger),
		opener:        opts.Opener,
		initializer:   NewModuleInitializer(opts.APIVersion, logger),
		registry:      NewTypeRegistry(logger),
		table:         table,
		manifests:     NewManifestParser(),
		recorder:      opts.Recorder,
		bus:           opts.Events,
		locale:        opts.Locale,
		defaultLocale: opts.DefaultLocale,
		statuses:      make(map[string]*ModuleStatus),
	}

	m.locales = NewLocaleLoader(m, logger)

	m.registry.OnReject(func(module string, kind Kind, id string, err error) {
		m.bus.Publish(events.NewDescriptorRejectedEvent(module, string(kind), id, err.Error()))
	})
	return m
}

// RunID identifies this manager's load run in persisted history
func (m *ModuleManager) RunID() string { return m.runID }

// Registry returns the type registry
func (m *ModuleManager) Registry() *TypeRegistry { return m.registry }

// Table returns the module table
func (m *ModuleManager) Table() *ModuleTable { return m.table }

// Locator returns the module locator
func (m *ModuleManager) Locator() *ModuleLocator { return m.locator }

// Events returns the lifecycle event bus
func (m *ModuleManager) Events() *events.Bus { return m.bus }

// Locale returns the process locale passed to modules
func (m *ModuleManager) Locale() string { return m.locale }

// DefaultLocale returns the fallback locale
func (m *ModuleManager) DefaultLocale() string { return m.defaultLocale }

// AddSearchRoot appends a (binary dir, data dir) template pair
func (m *ModuleManager) AddSearchRoot(bin, data string) {
	m.locator.AddSearchRoot(bin, data)
}

// Discover lists module names found under the search roots
func (m *ModuleManager) Discover() []string {
	return m.locator.Discover()
}

// Subscribe delivers lifecycle events to fn until the returned function is called
func (m *ModuleManager) Subscribe(filter events.EventFilter, fn events.EventHandler) func() {
	_, cancel := m.bus.Subscribe(filter, fn)
	return cancel
}

// LoadModule locates, opens and initializes one module. Every failure is
// returned and recorded; nothing of a failed module stays resident.
func (m *ModuleManager) LoadModule(name string) error {
	if name == "" {
		return obserrors.ValidationError("load_module", fmt.Errorf("%w: empty module name", obserrors.ErrInvalidConfig))
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if _, ok := m.table.Find(name); ok {
		return obserrors.RegistryError("load_module", obserrors.ErrAlreadyLoaded).WithModule(name)
	}

	m.transition(name, StateLocating, nil, nil)
	root, path, err := m.locator.Locate(name)
	if err != nil {
		m.logger.Warn("module not found", "module", name)
		m.transition(name, StateFailed, err, nil)
		return err
	}

	m.transition(name, StateLoading, nil, func(s *ModuleStatus) { s.Path = path })
	lib, err := m.opener.Open(path)
	if err != nil {
		m.logger.Warn("module could not be opened", "module", name, "path", path, "error", err)
		err = withModule(obserrors.Wrap(err, obserrors.ErrorTypeLoad, "open"), name)
		m.transition(name, StateFailed, err, nil)
		return err
	}

	m.transition(name, StateInitializing, nil, nil)
	loaded, types, err := m.initialize(name, root, path, lib)
	if err != nil {
		state := StateFailed
		if errors.Is(err, obserrors.ErrModuleRejected) {
			state = StateRejected
		}
		m.transition(name, state, err, nil)
		return err
	}

	if loaded.setLocale != nil {
		if err := callGuarded(func() { loaded.setLocale(m.locale) }); err != nil {
			m.logger.Error("module locale callback panicked", "module", name, "error", err)
		}
	}

	manifest := m.readManifest(loaded)
	now := time.Now()
	m.transition(name, StateActive, nil, func(s *ModuleStatus) {
		s.DataPath = loaded.DataPath
		s.Types = types
		s.LoadedAt = &now
		if manifest != nil {
			s.Version = manifest.Version
			s.Description = manifest.Description
		}
	})

	if m.recorder != nil {
		if err := m.recorder.RecordTypes(m.runID, name, types); err != nil {
			m.logger.Warn("failed to record module types", "module", name, "error", err)
		}
	}

	m.logger.Info("module loaded", "module", name, "path", path, "types", len(types))
	return nil
}

// initialize runs the entry point inside a registration window. On any
// failure the window is discarded and the library closed before returning.
func (m *ModuleManager) initialize(name string, root SearchRoot, path string, lib Library) (*LoadedModule, []TypeInfo, error) {
	if err := m.registry.BeginLoad(name); err != nil {
		lib.Close()
		return nil, nil, err
	}

	loaded := &LoadedModule{
		Name:     name,
		Path:     path,
		DataPath: ExpandDir(root.Data, name),
		Root:     root,
		library:  lib,
	}

	m.loading.Store(loaded)
	err := m.initializer.Call(lib, name)
	m.loading.Store(nil)
	m.registry.CloseLoad()
	if err != nil {
		m.registry.DiscardLoad()
		if cerr := lib.Close(); cerr != nil {
			m.logger.Warn("failed to close rejected module", "module", name, "error", cerr)
		}
		return nil, nil, withModule(err, name)
	}
	loaded.LoadedAt = time.Now()

	if found, err := lib.Bind(SymbolModuleSetLocale, &loaded.setLocale); found && err != nil {
		m.logger.Warn("ignoring module symbol with wrong signature", "module", name, "symbol", SymbolModuleSetLocale, "error", err)
		loaded.setLocale = nil
	}
	if found, err := lib.Bind(SymbolModuleUnload, &loaded.unload); found && err != nil {
		m.logger.Warn("ignoring module symbol with wrong signature", "module", name, "symbol", SymbolModuleUnload, "error", err)
		loaded.unload = nil
	}

	if err := m.table.Insert(loaded); err != nil {
		m.registry.DiscardLoad()
		lib.Close()
		return nil, nil, err
	}
	return loaded, m.registry.CommitLoad(), nil
}

func withModule(err error, name string) error {
	var mErr *obserrors.ModuleError
	if errors.As(err, &mErr) && mErr.Module == "" {
		mErr.WithModule(name)
	}
	return err
}

func (m *ModuleManager) readManifest(loaded *LoadedModule) *Manifest {
	manifest, err := m.manifests.ParseDir(loaded.DataPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("ignoring invalid module manifest", "module", loaded.Name, "error", err)
		}
		return nil
	}
	if manifest.Name != "" && !strings.EqualFold(manifest.Name, loaded.Name) {
		m.logger.Warn("module manifest name mismatch", "module", loaded.Name, "manifest_name", manifest.Name)
	}
	return manifest
}

var stateEvents = map[ModuleState]events.EventType{
	StateLocating:     events.EventModuleLocating,
	StateLoading:      events.EventModuleLoading,
	StateInitializing: events.EventModuleInitializing,
	StateActive:       events.EventModuleActive,
	StateRejected:     events.EventModuleRejected,
	StateFailed:       events.EventModuleFailed,
	StateUnloaded:     events.EventModuleUnloaded,
}

// transition records a state change, persists it and publishes an event
func (m *ModuleManager) transition(name string, state ModuleState, cause error, update func(*ModuleStatus)) {
	key := strings.ToLower(name)
	now := time.Now()

	m.mu.Lock()
	status, ok := m.statuses[key]
	if !ok || state == StateLocating {
		status = &ModuleStatus{Name: name}
		m.statuses[key] = status
	}
	status.State = state
	status.RunID = m.runID
	status.UpdatedAt = now
	status.Error = ""
	status.ErrorType = ""
	if cause != nil {
		status.Error = cause.Error()
		status.ErrorType = string(obserrors.GetType(cause))
	}
	if update != nil {
		update(status)
	}
	snapshot := *status
	m.mu.Unlock()

	if m.recorder != nil {
		if err := m.recorder.RecordStatus(snapshot); err != nil {
			m.logger.Warn("failed to record module status", "module", name, "state", state, "error", err)
		}
	}

	m.bus.Publish(events.NewModuleStateEvent(stateEvents[state], events.ModuleStateData{
		Module:    name,
		State:     string(state),
		Path:      snapshot.Path,
		Error:     snapshot.Error,
		ErrorType: snapshot.ErrorType,
		Timestamp: now,
	}, m.runID))
}

// LoadModules loads each name in order; one failure does not stop the rest
func (m *ModuleManager) LoadModules(names []string) []LoadResult {
	results := make([]LoadResult, 0, len(names))
	for _, name := range names {
		err := m.LoadModule(name)
		state := StateActive
		if err != nil {
			state = StateFailed
			if status, ok := m.Status(name); ok {
				state = status.State
			}
		}
		results = append(results, LoadResult{Name: name, State: state, Err: err})
	}
	return results
}

// LoadAll discovers every module under the search roots and loads the ones
// not yet attempted.
func (m *ModuleManager) LoadAll() []LoadResult {
	var pending []string
	for _, name := range m.Discover() {
		if !m.Attempted(name) {
			pending = append(pending, name)
		}
	}

	results := m.LoadModules(pending)

	active := 0
	for _, r := range results {
		if r.Err == nil {
			active++
		}
	}
	m.logger.Info("module loading completed", "discovered", len(pending), "active", active)
	return results
}

// Attempted reports whether a load of the module was ever started
func (m *ModuleManager) Attempted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.statuses[strings.ToLower(name)]
	return ok
}

// Status returns the last known status of a module
func (m *ModuleManager) Status(name string) (ModuleStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[strings.ToLower(name)]
	if !ok {
		return ModuleStatus{}, false
	}
	return *status, true
}

// Statuses returns every known module status sorted by name
func (m *ModuleManager) Statuses() []ModuleStatus {
	m.mu.RLock()
	out := make([]ModuleStatus, 0, len(m.statuses))
	for _, s := range m.statuses {
		out = append(out, *s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// FindModuleFile resolves a file in a loaded module's data directory. The
// module whose entry point is running can resolve its own files too.
func (m *ModuleManager) FindModuleFile(module, file string) (string, bool) {
	return m.FindDataFile(module, file)
}

// FindDataFile implements FileFinder over the module table and the module
// currently loading
func (m *ModuleManager) FindDataFile(module, file string) (string, bool) {
	if path, ok := m.table.FindDataFile(module, file); ok {
		return path, true
	}
	if loading := m.loading.Load(); loading != nil && strings.EqualFold(loading.Name, module) {
		return dataFile(loading.DataPath, file)
	}
	return "", false
}

// LoadLocale builds a module's locale table
func (m *ModuleManager) LoadLocale(module, defaultLocale, locale string) *LocaleTable {
	table := m.locales.Load(module, defaultLocale, locale)
	if table == nil {
		m.bus.Publish(events.Event{
			Type:     events.EventLocaleMissing,
			Source:   fmt.Sprintf("module:%s", module),
			Module:   module,
			Message:  fmt.Sprintf("no %s text for module '%s'", defaultLocale, module),
			Priority: events.PriorityLow,
		})
	}
	return table
}

// UnloadAll runs every module's unload callback and releases its library,
// in load order, then clears the registry.
func (m *ModuleManager) UnloadAll() {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	for _, name := range m.table.UnloadAll() {
		m.transition(name, StateUnloaded, nil, nil)
	}
	m.registry.Reset()
	m.logger.Info("all modules unloaded")
}
