package cli

import (
	"fmt"

	"github.com/david50407/obs-studio/internal/config"
	"github.com/david50407/obs-studio/internal/database"
	"github.com/david50407/obs-studio/internal/events"
	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

// newManager builds the process module manager from configuration and
// installs it as the default one modules register through.
func newManager(modules config.ModulesConfig, recorder pluginmodule.StatusRecorder) (*pluginmodule.ModuleManager, error) {
	opener, err := pluginmodule.NewOpener(modules.Loader)
	if err != nil {
		return nil, err
	}

	opts := pluginmodule.ManagerOptions{
		Opener:        opener,
		Extension:     modules.Extension,
		APIVersion:    modules.APIVersion,
		Locale:        modules.Locale,
		DefaultLocale: modules.DefaultLocale,
		Logger:        log,
		Recorder:      recorder,
		Events:        events.GetGlobalEventBus(),
	}
	m := pluginmodule.NewModuleManager(opts)

	if root, ok := pluginmodule.SearchRootFromEnv(); ok {
		m.AddSearchRoot(root.Bin, root.Data)
	}
	for _, root := range modules.SearchRoots {
		m.AddSearchRoot(root.Bin, root.Data)
	}

	pluginmodule.SetDefault(m)
	return m, nil
}

// openStore opens the status store when the database is enabled
func openStore(db config.DatabaseConfig) (*database.ModuleStore, error) {
	if !db.Enabled {
		return nil, nil
	}
	conn, err := database.Open(db, log)
	if err != nil {
		return nil, fmt.Errorf("opening status store: %w", err)
	}
	return database.NewModuleStore(conn), nil
}

// recorderFor keeps a disabled store from becoming a non-nil recorder
func recorderFor(store *database.ModuleStore) pluginmodule.StatusRecorder {
	if store == nil {
		return nil
	}
	return store
}
