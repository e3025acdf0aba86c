package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/david50407/obs-studio/internal/events"
	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

var watchLoad bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report modules as they appear in the search roots",
	Long: `Watch the search roots and print every module binary that appears after
startup. With --load each new module is loaded and its outcome printed.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchLoad, "load", false, "Load modules as they appear")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	m, err := newManager(cfg.Modules, nil)
	if err != nil {
		return err
	}
	defer m.UnloadAll()

	out := cmd.OutOrStdout()
	unsubscribe := m.Subscribe(events.EventFilter{
		Types: []events.EventType{
			events.EventModuleActive,
			events.EventModuleRejected,
			events.EventModuleFailed,
		},
	}, func(e events.Event) {
		fmt.Fprintf(out, "%s  %s: %s\n", e.Timestamp.Format("15:04:05"), e.Module, e.Message)
	})
	defer unsubscribe()

	watcher, err := pluginmodule.NewWatcher(m, pluginmodule.WatcherConfig{
		Debounce: cfg.Watch.Debounce,
		AutoLoad: watchLoad,
	}, log)
	if err != nil {
		return err
	}
	watcher.OnDiscovered(func(names []string) {
		fmt.Fprintf(out, "discovered: %s\n", strings.Join(names, ", "))
	})
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "Watching %d search root(s), press Ctrl+C to stop\n", len(m.Locator().Roots()))
	waitForSignal()
	return nil
}
