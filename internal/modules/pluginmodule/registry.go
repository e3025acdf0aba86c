package pluginmodule

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// Registration is a descriptor accepted from a module
type Registration[T Descriptor] struct {
	Module string `json:"module"`
	Info   T      `json:"-"`
}

type registration struct {
	module   string
	category Category
	info     Descriptor
}

// loadWindow collects the registrations of the module whose entry point is running
type loadWindow struct {
	module string
	staged []registration
	closed bool
}

// RejectFunc observes a dropped registration
type RejectFunc func(module string, kind Kind, id string, err error)

// TypeRegistry holds the typed descriptor collections modules populate while
// their entry point runs. Collections only grow while a module loads and are
// read under a shared lock afterwards.
type TypeRegistry struct {
	logger hclog.Logger

	mu       sync.RWMutex
	types    map[Category][]registration
	window   *loadWindow
	onReject RejectFunc
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry(logger hclog.Logger) *TypeRegistry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TypeRegistry{
		logger: logger.Named("registry"),
		types:  make(map[Category][]registration),
	}
}

// OnReject installs an observer for dropped registrations
func (r *TypeRegistry) OnReject(fn RejectFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReject = fn
}

// BeginLoad opens the registration window for a module
func (r *TypeRegistry) BeginLoad(module string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.window != nil {
		return obserrors.RegistryError("begin_load", fmt.Errorf("module %q is still loading", r.window.module)).WithModule(module)
	}
	r.window = &loadWindow{module: module}
	return nil
}

// CloseLoad stops the window from accepting registrations once the entry
// point has returned. The staged set waits for CommitLoad or DiscardLoad.
func (r *TypeRegistry) CloseLoad() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.window != nil {
		r.window.closed = true
	}
}

// CommitLoad closes the window and makes the staged registrations permanent
func (r *TypeRegistry) CommitLoad() []TypeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.window == nil {
		return nil
	}

	committed := make([]TypeInfo, 0, len(r.window.staged))
	for _, reg := range r.window.staged {
		r.types[reg.category] = append(r.types[reg.category], reg)
		committed = append(committed, TypeInfo{Category: reg.category, ID: reg.info.DescriptorID(), Module: reg.module})
	}
	r.window = nil
	return committed
}

// DiscardLoad closes the window and drops everything the module registered
func (r *TypeRegistry) DiscardLoad() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.window != nil && len(r.window.staged) > 0 {
		r.logger.Debug("discarding registrations of failed module", "module", r.window.module, "count", len(r.window.staged))
	}
	r.window = nil
}

// Loading returns the module whose registration window is open
func (r *TypeRegistry) Loading() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.window == nil || r.window.closed {
		return "", false
	}
	return r.window.module, true
}

// RegisterSource registers an input, filter or transition
func (r *TypeRegistry) RegisterSource(info *SourceInfo, size uintptr) error {
	return register(r, info, size)
}

// RegisterOutput registers an output
func (r *TypeRegistry) RegisterOutput(info *OutputInfo, size uintptr) error {
	return register(r, info, size)
}

// RegisterEncoder registers an encoder
func (r *TypeRegistry) RegisterEncoder(info *EncoderInfo, size uintptr) error {
	return register(r, info, size)
}

// RegisterService registers a streaming service
func (r *TypeRegistry) RegisterService(info *ServiceInfo, size uintptr) error {
	return register(r, info, size)
}

// RegisterModalUI registers a modal UI hook
func (r *TypeRegistry) RegisterModalUI(info *ModalUI, size uintptr) error {
	return register(r, info, size)
}

// RegisterModelessUI registers a modeless UI hook
func (r *TypeRegistry) RegisterModelessUI(info *ModelessUI, size uintptr) error {
	return register(r, info, size)
}

// register copies the declared prefix of info into a zeroed record, validates
// the copy and stages it in the open window. A rejected descriptor leaves
// every collection untouched.
func register[T Descriptor](r *TypeRegistry, info *T, size uintptr) error {
	var data T
	kind := data.Kind()

	if info == nil {
		return obserrors.DescriptorError("register_"+string(kind), fmt.Errorf("%w: nil descriptor", obserrors.ErrDescriptorRejected))
	}
	sizedCopy(&data, info, size)
	id := data.DescriptorID()

	category, verr := validateDescriptor(data)

	r.mu.Lock()
	window := r.window
	onReject := r.onReject
	module := ""
	if window != nil {
		module = window.module
	}

	var err error
	switch {
	case window == nil || window.closed:
		err = obserrors.RegistryError("register_"+string(kind), obserrors.ErrOutsideLoad).WithDetail("id", id)
		r.logger.Error("tried to register descriptor outside of module load", "module", module, "kind", kind, "id", id)
	case verr != nil:
		err = verr
		r.logger.Error("descriptor rejected", "module", module, "kind", kind, "id", id,
			"field", obserrors.GetDetails(verr)["field"], "error", verr)
	default:
		window.staged = append(window.staged, registration{module: module, category: category, info: data})
		r.logger.Debug("descriptor registered", "module", module, "category", category, "id", id)
	}
	r.mu.Unlock()

	if err != nil && onReject != nil {
		onReject(module, kind, id, err)
	}
	return err
}

func list[T Descriptor](r *TypeRegistry, category Category) []Registration[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.types[category]
	out := make([]Registration[T], 0, len(regs))
	for _, reg := range regs {
		if info, ok := reg.info.(T); ok {
			out = append(out, Registration[T]{Module: reg.module, Info: info})
		}
	}
	return out
}

func find[T Descriptor](r *TypeRegistry, id string, categories ...Category) (Registration[T], bool) {
	for _, c := range categories {
		for _, reg := range list[T](r, c) {
			if reg.Info.DescriptorID() == id {
				return reg, true
			}
		}
	}
	return Registration[T]{}, false
}

// Inputs returns the registered input sources
func (r *TypeRegistry) Inputs() []Registration[SourceInfo] {
	return list[SourceInfo](r, CategoryInput)
}

// Filters returns the registered filter sources
func (r *TypeRegistry) Filters() []Registration[SourceInfo] {
	return list[SourceInfo](r, CategoryFilter)
}

// Transitions returns the registered transition sources
func (r *TypeRegistry) Transitions() []Registration[SourceInfo] {
	return list[SourceInfo](r, CategoryTransition)
}

// Outputs returns the registered outputs
func (r *TypeRegistry) Outputs() []Registration[OutputInfo] {
	return list[OutputInfo](r, CategoryOutput)
}

// Encoders returns the registered encoders
func (r *TypeRegistry) Encoders() []Registration[EncoderInfo] {
	return list[EncoderInfo](r, CategoryEncoder)
}

// Services returns the registered services
func (r *TypeRegistry) Services() []Registration[ServiceInfo] {
	return list[ServiceInfo](r, CategoryService)
}

// ModalUIs returns the registered modal UI hooks
func (r *TypeRegistry) ModalUIs() []Registration[ModalUI] {
	return list[ModalUI](r, CategoryModalUI)
}

// ModelessUIs returns the registered modeless UI hooks
func (r *TypeRegistry) ModelessUIs() []Registration[ModelessUI] {
	return list[ModelessUI](r, CategoryModelessUI)
}

// FindSource looks a source up by id across inputs, filters and transitions
func (r *TypeRegistry) FindSource(id string) (Registration[SourceInfo], bool) {
	return find[SourceInfo](r, id, CategoryInput, CategoryFilter, CategoryTransition)
}

// FindOutput looks an output up by id
func (r *TypeRegistry) FindOutput(id string) (Registration[OutputInfo], bool) {
	return find[OutputInfo](r, id, CategoryOutput)
}

// FindEncoder looks an encoder up by id
func (r *TypeRegistry) FindEncoder(id string) (Registration[EncoderInfo], bool) {
	return find[EncoderInfo](r, id, CategoryEncoder)
}

// FindService looks a service up by id
func (r *TypeRegistry) FindService(id string) (Registration[ServiceInfo], bool) {
	return find[ServiceInfo](r, id, CategoryService)
}

// FindModalUI returns the modal hook for a task on a target
func (r *TypeRegistry) FindModalUI(task, target string) (Registration[ModalUI], bool) {
	for _, reg := range r.ModalUIs() {
		if reg.Info.Task == task && reg.Info.Target == target {
			return reg, true
		}
	}
	return Registration[ModalUI]{}, false
}

// FindModelessUI returns the modeless hook for a task on a target
func (r *TypeRegistry) FindModelessUI(task, target string) (Registration[ModelessUI], bool) {
	for _, reg := range r.ModelessUIs() {
		if reg.Info.Task == task && reg.Info.Target == target {
			return reg, true
		}
	}
	return Registration[ModelessUI]{}, false
}

// Count returns the size of one collection
func (r *TypeRegistry) Count(category Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types[category])
}

// Types lists registered descriptors of the given categories, or of all
// categories when none are given.
func (r *TypeRegistry) Types(categories ...Category) []TypeInfo {
	if len(categories) == 0 {
		categories = Categories
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []TypeInfo
	for _, c := range categories {
		for _, reg := range r.types[c] {
			out = append(out, TypeInfo{Category: c, ID: reg.info.DescriptorID(), Module: reg.module})
		}
	}
	return out
}

// Reset drops every collection; used when the host shuts down
func (r *TypeRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[Category][]registration)
	r.window = nil
}
