//go:build darwin || freebsd || linux

package pluginmodule

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// NativeOpener opens C ABI shared objects through dlopen, without cgo.
//
// A C module can accept or reject its load and receive locale and unload
// callbacks, but the registry has no C-callable entry, so it cannot
// register descriptors. Modules that provide types are built as Go plugins.
type NativeOpener struct{}

// Open maps the shared object at path with RTLD_NOW|RTLD_LOCAL
func (NativeOpener) Open(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, obserrors.LoadError("open", obserrors.ErrLoadFailed).
			WithDetail("path", path).
			WithDetail("cause", err.Error())
	}
	return &nativeLibrary{path: path, handle: handle}, nil
}

type nativeLibrary struct {
	path   string
	mu     sync.Mutex
	handle uintptr
}

func (l *nativeLibrary) Path() string {
	return l.path
}

func (l *nativeLibrary) Bind(symbol string, fn interface{}) (found bool, err error) {
	l.mu.Lock()
	handle := l.handle
	l.mu.Unlock()
	if handle == 0 {
		return false, obserrors.LoadError("bind_symbol", fmt.Errorf("library %s is closed", l.path))
	}

	sym, err := purego.Dlsym(handle, symbol)
	if err != nil || sym == 0 {
		return false, nil
	}

	// RegisterFunc panics on signatures it cannot marshal.
	defer func() {
		if r := recover(); r != nil {
			err = obserrors.SymbolError("bind_symbol", obserrors.ErrSymbolType).
				WithDetail("symbol", symbol).
				WithDetail("cause", fmt.Sprint(r))
		}
	}()
	purego.RegisterFunc(fn, sym)
	return true, nil
}

func (l *nativeLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return obserrors.LoadError("close", err).WithDetail("path", l.path)
	}
	return nil
}
