package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrServiceNotFound = errors.New("service not registered")
	ErrServiceType     = errors.New("service has a different type")
)

// Registry hands module services to the server and CLI by name, so
// neither imports the package that implements them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	seq     uint64
}

type entry struct {
	svc any
	seq uint64
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Default is the process-wide registry used by the CLI
var Default = NewRegistry()

// Provide publishes svc under name, replacing any previous entry. The
// returned func withdraws it again, but only while it is still the
// registered value.
func (r *Registry) Provide(name string, svc any) func() {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.entries[name] = entry{svc: svc, seq: seq}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if current, ok := r.entries[name]; ok && current.seq == seq {
			delete(r.entries, name)
		}
	}
}

// Names lists the registered service names in order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the service registered under name as T
func Lookup[T any](r *Registry, name string) (T, error) {
	var zero T

	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	typed, ok := e.svc.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrServiceType, name, e.svc)
	}
	return typed, nil
}
