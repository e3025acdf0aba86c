package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

func main() {
	dirs := os.Args[1:]
	if len(dirs) == 0 {
		fmt.Println("usage: validate-modules <data dir>...")
		fmt.Println("Each argument is a module data directory or a directory of them.")
		os.Exit(2)
	}

	fmt.Println("=== Module Manifest Validation ===")
	if failed := validate(os.Stdout, dirs); failed > 0 {
		fmt.Printf("\n✗ %d module(s) failed validation\n", failed)
		os.Exit(1)
	}
	fmt.Println("\n✓ All module manifests are valid")
}

// validate checks every manifest under dirs and returns the number of modules
// with problems
func validate(w io.Writer, dirs []string) int {
	parser := pluginmodule.NewManifestParser()
	failed := 0

	for _, dataDir := range manifestDirs(dirs) {
		manifest, err := parser.ParseDir(dataDir)
		if err != nil {
			fmt.Fprintf(w, "✗ %s: %v\n", dataDir, err)
			failed++
			continue
		}

		problems := parser.Problems(manifest, dataDir)
		if len(problems) == 0 {
			fmt.Fprintf(w, "✓ %s %s (%s)\n", manifest.Name, manifest.Version, dataDir)
			continue
		}

		failed++
		fmt.Fprintf(w, "✗ %s (%s)\n", manifest.Name, dataDir)
		for _, p := range problems {
			fmt.Fprintf(w, "    - %s\n", p)
		}
	}
	return failed
}

// manifestDirs expands each argument to the directories holding a manifest:
// the argument itself, or its immediate subdirectories.
func manifestDirs(args []string) []string {
	var out []string
	for _, dir := range args {
		if hasManifest(dir) {
			out = append(out, dir)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			out = append(out, dir)
			continue
		}
		for _, e := range entries {
			sub := filepath.Join(dir, e.Name())
			if e.IsDir() && hasManifest(sub) {
				out = append(out, sub)
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasManifest(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, pluginmodule.ManifestFile))
	return err == nil
}
