package pluginmodule

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// Manifest is the optional module.cue shipped in a module's data directory
type Manifest struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version"`
	Description string                 `json:"description,omitempty"`
	Author      string                 `json:"author,omitempty"`
	Locales     []string               `json:"locales,omitempty"`
	Defaults    map[string]interface{} `json:"defaults,omitempty"`
}

// DefaultsFor returns the default settings declared for a type id
func (m *Manifest) DefaultsFor(typeID string) Settings {
	out := Settings{}
	if m == nil {
		return out
	}
	if values, ok := m.Defaults[typeID].(map[string]interface{}); ok {
		for k, v := range values {
			out[k] = v
		}
	}
	return out
}

// ManifestParser reads module.cue files
type ManifestParser struct {
	ctx *cue.Context
}

// NewManifestParser creates a new manifest parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{
		ctx: cuecontext.New(),
	}
}

// ParseDir parses <dataDir>/module.cue. It returns os.ErrNotExist, wrapped,
// when the directory has no manifest.
func (p *ManifestParser) ParseDir(dataDir string) (*Manifest, error) {
	path := filepath.Join(filepath.FromSlash(dataDir), ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return p.Parse(path, data)
}

// Parse evaluates manifest source and extracts the #Module definition
func (p *ManifestParser) Parse(filename string, src []byte) (*Manifest, error) {
	value := p.ctx.CompileBytes(src, cue.Filename(filename))
	if value.Err() != nil {
		return nil, obserrors.ValidationError("parse_manifest", fmt.Errorf("error building CUE instance: %v", value.Err())).
			WithDetail("file", filename)
	}

	moduleDef := value.LookupPath(cue.ParsePath("#Module"))
	if !moduleDef.Exists() {
		return nil, obserrors.ValidationError("parse_manifest", fmt.Errorf("#Module definition not found in CUE file")).
			WithDetail("file", filename)
	}

	if err := moduleDef.Validate(cue.Concrete(true)); err != nil {
		return nil, obserrors.ValidationError("parse_manifest", fmt.Errorf("#Module is not concrete: %v", err)).
			WithDetail("file", filename)
	}

	var m Manifest
	if err := moduleDef.Decode(&m); err != nil {
		return nil, obserrors.ValidationError("parse_manifest", fmt.Errorf("error decoding #Module: %v", err)).
			WithDetail("file", filename)
	}
	return &m, nil
}

// Problems checks a parsed manifest against the data directory it came from
// and returns human-readable findings, sorted.
func (p *ManifestParser) Problems(m *Manifest, dataDir string) []string {
	var problems []string

	if m.Name == "" {
		problems = append(problems, "name is empty")
	}
	if m.Version == "" {
		problems = append(problems, "version is empty")
	}

	for _, locale := range m.Locales {
		file := filepath.Join(filepath.FromSlash(dataDir), filepath.FromSlash(LocaleFile(locale)))
		if !fileExists(file) {
			problems = append(problems, fmt.Sprintf("locale %s declared but %s is missing", locale, LocaleFile(locale)))
			continue
		}
		if _, err := NewLocaleTable(file); err != nil {
			problems = append(problems, fmt.Sprintf("locale %s does not parse: %v", locale, err))
		}
	}

	sort.Strings(problems)
	return problems
}
