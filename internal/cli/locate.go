package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

var locateJSON bool

var locateCmd = &cobra.Command{
	Use:   "locate [module...]",
	Short: "Show where modules would be loaded from",
	Long: `Resolve module binaries against the search roots without loading them.
With no arguments every module found in the search roots is listed.`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().BoolVar(&locateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(locateCmd)
}

type locateEntry struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Data  string `json:"data,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	m, err := newManager(cfg.Modules, nil)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = m.Discover()
	}

	entries := make([]locateEntry, 0, len(names))
	missing := 0
	for _, name := range names {
		entry := locateEntry{Name: name}
		if root, path, err := m.Locator().Locate(name); err == nil {
			entry.Found = true
			entry.Path = path
			entry.Data = pluginmodule.ExpandDir(root.Data, name)
		} else {
			missing++
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()
	if locateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	} else if len(entries) == 0 {
		fmt.Fprintln(out, "No modules found in the search roots.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODULE\tBINARY\tDATA")
		for _, e := range entries {
			path := e.Path
			if !e.Found {
				path = "(not found)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, path, e.Data)
		}
		w.Flush()
	}

	if missing > 0 {
		return fmt.Errorf("%d module(s) not found", missing)
	}
	return nil
}
