package pluginmodule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/david50407/obs-studio/internal/events"
)

// WatcherConfig configures module directory watching
type WatcherConfig struct {
	Debounce time.Duration
	AutoLoad bool
}

// Watcher notices module binaries that appear under the search roots after
// startup. Modules that were already attempted are never retried.
type Watcher struct {
	manager *ModuleManager
	logger  hclog.Logger
	config  WatcherConfig

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	known   map[string]struct{}
	onFound func(names []string)
}

// NewWatcher creates a watcher for the manager's search roots
func NewWatcher(manager *ModuleManager, config WatcherConfig, logger hclog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		manager: manager,
		logger:  logger.Named("watcher"),
		config:  config,
		watcher: fsw,
		ctx:     ctx,
		cancel:  cancel,
		known:   make(map[string]struct{}),
	}, nil
}

// OnDiscovered installs a callback receiving newly seen module names
func (w *Watcher) OnDiscovered(fn func(names []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFound = fn
}

// Start snapshots the current modules and begins watching
func (w *Watcher) Start() error {
	for _, name := range w.manager.Discover() {
		w.known[strings.ToLower(name)] = struct{}{}
	}

	watched := 0
	for _, dir := range w.watchDirs() {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("failed to add watch for module directory", "path", dir, "error", err)
			continue
		}
		watched++
		w.logger.Debug("added watch for module directory", "path", dir)
	}
	if watched == 0 {
		return fmt.Errorf("no module directory could be watched")
	}

	w.wg.Add(1)
	go w.eventLoop()

	w.logger.Info("module watcher started", "watched_directories", watched, "auto_load", w.config.AutoLoad)
	return nil
}

// Stop ends watching and cancels a pending rescan
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("module watcher stopped")
	return err
}

// watchDirs returns the deepest existing directory above each binary dir
// template, cut at the first placeholder so per-module directories created
// later are still noticed.
func (w *Watcher) watchDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string

	for _, root := range w.manager.Locator().Roots() {
		dir := strings.ReplaceAll(root.Bin, "\\", "/")
		if i := strings.Index(dir, ModulePlaceholder); i >= 0 {
			dir = dir[:i]
		}
		dir = filepath.Clean(filepath.FromSlash(dir))

		for {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}

		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)

		// Existing per-module directories need their own watches
		if strings.Contains(root.Bin, ModulePlaceholder) {
			pattern := filepath.FromSlash(strings.TrimSuffix(ExpandDir(root.Bin, "*"), "/"))
			matches, _ := filepath.Glob(pattern)
			for _, m := range matches {
				if _, ok := seen[m]; !ok {
					seen[m] = struct{}{}
					dirs = append(dirs, m)
				}
			}
		}
	}
	return dirs
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err == nil {
				w.logger.Debug("added watch for new directory", "path", event.Name)
			}
		}
	}

	w.logger.Trace("file system event", "path", event.Name, "op", event.Op.String())
	w.scheduleRescan()
}

// scheduleRescan debounces bursts of events into one rescan
func (w *Watcher) scheduleRescan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.Rescan)
}

// Rescan discovers modules and reports the ones not seen before. With
// AutoLoad set they are loaded unless a load was already attempted.
func (w *Watcher) Rescan() {
	if w.ctx.Err() != nil {
		return
	}

	var fresh []string
	w.mu.Lock()
	for _, name := range w.manager.Discover() {
		key := strings.ToLower(name)
		if _, ok := w.known[key]; ok {
			continue
		}
		w.known[key] = struct{}{}
		fresh = append(fresh, name)
	}
	onFound := w.onFound
	w.mu.Unlock()

	if len(fresh) == 0 {
		return
	}

	for _, name := range fresh {
		w.logger.Info("module discovered", "module", name)
		w.manager.Events().Publish(events.NewModuleDiscoveredEvent(name))
	}

	if w.config.AutoLoad {
		for _, name := range fresh {
			if w.manager.Attempted(name) {
				w.logger.Debug("not retrying module", "module", name)
				continue
			}
			if err := w.manager.LoadModule(name); err != nil {
				w.logger.Warn("module discovered but failed to load", "module", name, "error", err)
			}
		}
	}

	if onFound != nil {
		onFound(fresh)
	}
}
