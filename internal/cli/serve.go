package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
	"github.com/david50407/obs-studio/internal/server"
	"github.com/david50407/obs-studio/internal/services"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load modules and serve the introspection API",
	Long: `Load the configured modules (or every module in the search roots) and keep
them resident while serving module status, registered types, locale tables
and lifecycle events over HTTP until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Watch the search roots for new modules")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}

	m, err := newManager(cfg.Modules, recorderFor(store))
	if err != nil {
		return err
	}
	defer m.UnloadAll()

	var results []pluginmodule.LoadResult
	if len(cfg.Modules.Load) > 0 {
		results = m.LoadModules(cfg.Modules.Load)
	} else {
		results = m.LoadAll()
	}
	active := 0
	for _, r := range results {
		if r.State == pluginmodule.StateActive {
			active++
		}
	}
	log.Info("modules loaded", "active", active, "attempted", len(results), "run_id", m.RunID())

	defer services.Default.Provide(services.ModuleServiceName, pluginmodule.NewServiceAdapter(m))()
	if store != nil {
		defer services.Default.Provide(services.HistoryServiceName, store)()
	}

	deps, err := server.ResolveDependencies(services.Default, m.Events(), m.RunID())
	if err != nil {
		return err
	}

	if serveWatch || cfg.Watch.Enabled {
		watcher, err := pluginmodule.NewWatcher(m, pluginmodule.WatcherConfig{
			Debounce: cfg.Watch.Debounce,
			AutoLoad: cfg.Watch.AutoLoad,
		}, log)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			log.Warn("module watcher not started", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	srv, err := server.New(cfg.Server, deps, log)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving module API on http://%s/api\n", srv.Addr())

	waitForSignal()
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	return nil
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	<-sigChan
}
