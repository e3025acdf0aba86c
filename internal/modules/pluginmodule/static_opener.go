package pluginmodule

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// Symbols are the exports of a module linked into the host binary
type Symbols struct {
	Load      func(apiVersion uint32) bool
	SetLocale func(locale string)
	Unload    func()
}

// StaticOpener serves modules compiled into the process. A located file is
// matched to its symbols by file name, with or without the library prefix,
// so the usual search root layout still decides which modules exist.
type StaticOpener struct {
	extension string

	mu      sync.RWMutex
	modules map[string]Symbols
	opened  map[string]int
}

// NewStaticOpener creates an opener for files with the given extension
func NewStaticOpener(extension string) *StaticOpener {
	return &StaticOpener{
		extension: NewPathResolver(extension).Extension(),
		modules:   make(map[string]Symbols),
		opened:    make(map[string]int),
	}
}

// Add links a module's symbols under its name
func (o *StaticOpener) Add(name string, symbols Symbols) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modules[name] = symbols
}

// Open returns the linked module whose name matches the file at path
func (o *StaticOpener) Open(path string) (Library, error) {
	stem := strings.TrimSuffix(filepath.Base(filepath.FromSlash(path)), o.extension)

	o.mu.Lock()
	defer o.mu.Unlock()

	name := stem
	symbols, ok := o.modules[name]
	if !ok {
		name = strings.TrimPrefix(stem, LibraryPrefix)
		symbols, ok = o.modules[name]
	}
	if !ok {
		return nil, obserrors.LoadError("open", obserrors.ErrLoadFailed).
			WithDetail("path", path).
			WithDetail("cause", fmt.Sprintf("no static module named %q", stem))
	}

	o.opened[name]++
	return &staticLibrary{opener: o, name: name, path: path, symbols: symbols}, nil
}

// OpenCount returns how many handles to a module are currently open
func (o *StaticOpener) OpenCount(name string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opened[name]
}

type staticLibrary struct {
	opener  *StaticOpener
	name    string
	path    string
	symbols Symbols
	once    sync.Once
}

func (l *staticLibrary) Path() string {
	return l.path
}

func (l *staticLibrary) Bind(symbol string, fn interface{}) (bool, error) {
	var value interface{}
	switch symbol {
	case SymbolModuleLoad:
		if l.symbols.Load == nil {
			return false, nil
		}
		value = l.symbols.Load
	case SymbolModuleSetLocale:
		if l.symbols.SetLocale == nil {
			return false, nil
		}
		value = l.symbols.SetLocale
	case SymbolModuleUnload:
		if l.symbols.Unload == nil {
			return false, nil
		}
		value = l.symbols.Unload
	default:
		return false, nil
	}

	if err := bindValue(symbol, value, fn); err != nil {
		return true, err
	}
	return true, nil
}

func (l *staticLibrary) Close() error {
	l.once.Do(func() {
		l.opener.mu.Lock()
		l.opener.opened[l.name]--
		l.opener.mu.Unlock()
	})
	return nil
}
