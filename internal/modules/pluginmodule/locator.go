package pluginmodule

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// ModuleLocator holds the ordered search roots and finds module binaries in them.
// Roots registered earlier shadow later ones.
type ModuleLocator struct {
	logger   hclog.Logger
	resolver PathResolver

	mu    sync.RWMutex
	roots []SearchRoot
}

// NewModuleLocator creates a locator with no search roots
func NewModuleLocator(resolver PathResolver, logger hclog.Logger) *ModuleLocator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModuleLocator{
		logger:   logger.Named("locator"),
		resolver: resolver,
	}
}

// AddSearchRoot appends a (binary dir, data dir) template pair
func (l *ModuleLocator) AddSearchRoot(bin, data string) {
	if bin == "" || data == "" {
		l.logger.Warn("ignoring incomplete search root", "bin", bin, "data", data)
		return
	}

	l.mu.Lock()
	l.roots = append(l.roots, SearchRoot{Bin: bin, Data: data})
	l.mu.Unlock()

	l.logger.Debug("added search root", "bin", bin, "data", data)
}

// SearchRootFromEnv reads an extra search root from OBS_MODULE_PATH and
// OBS_MODULE_DATA. Both must be set.
func SearchRootFromEnv() (SearchRoot, bool) {
	bin, data := os.Getenv(EnvModulePath), os.Getenv(EnvModuleData)
	if bin == "" || data == "" {
		return SearchRoot{}, false
	}
	return SearchRoot{Bin: bin, Data: data}, true
}

// Roots returns a copy of the registered search roots in priority order
func (l *ModuleLocator) Roots() []SearchRoot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]SearchRoot(nil), l.roots...)
}

// Locate returns the first search root holding a binary for the module and
// the path of that binary.
func (l *ModuleLocator) Locate(name string) (SearchRoot, string, error) {
	for _, root := range l.Roots() {
		if path, ok := l.resolver.Resolve(root.Bin, name); ok {
			l.logger.Debug("module located", "module", name, "path", path)
			return root, path, nil
		}
	}

	return SearchRoot{}, "", obserrors.NotFoundError("locate", obserrors.ErrModuleNotFound).WithModule(name)
}

// Discover lists module names with a binary under any search root, sorted
// and without duplicates. Templates are globbed with the placeholder as a
// wildcard, so per-module directories are found too.
func (l *ModuleLocator) Discover() []string {
	seen := make(map[string]struct{})
	ext := l.resolver.Extension()

	for _, root := range l.Roots() {
		pattern := ExpandDir(root.Bin, "*") + "*" + ext
		matches, err := filepath.Glob(filepath.FromSlash(pattern))
		if err != nil {
			l.logger.Warn("bad search root pattern", "bin", root.Bin, "error", err)
			continue
		}

		for _, match := range matches {
			if !fileExists(match) {
				continue
			}
			name, ok := l.resolver.ModuleName(filepath.Base(match))
			if !ok {
				continue
			}
			if resolved, found := l.nameFor(root, match, name); found {
				seen[resolved] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nameFor maps a discovered file back to the module name that locates it,
// preferring the name without the library prefix.
func (l *ModuleLocator) nameFor(root SearchRoot, match, stem string) (string, bool) {
	candidates := []string{stem}
	if trimmed := strings.TrimPrefix(stem, l.resolver.prefix); trimmed != stem && trimmed != "" {
		candidates = []string{trimmed, stem}
	}

	want := filepath.Clean(match)
	for _, name := range candidates {
		path, ok := l.resolver.Resolve(root.Bin, name)
		if ok && filepath.Clean(filepath.FromSlash(path)) == want {
			return name, true
		}
	}
	return "", false
}
