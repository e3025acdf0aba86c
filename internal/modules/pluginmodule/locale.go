package pluginmodule

import (
	"regexp"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/ini.v1"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

var localeLoadOptions = ini.LoadOptions{
	IgnoreInlineComment:       true,
	UnescapeValueDoubleQuotes: true,
	KeyValueDelimiters:        "=",
	AllowShadows:              false,
}

var localeEscapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// language, then optional region or script subtags: en, en-US, zh_Hant_TW
var localeCode = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]+)*$`)

// ValidLocale reports whether code can name a locale file
func ValidLocale(code string) bool {
	return localeCode.MatchString(code)
}

// LocaleTable maps text keys to localized strings. Later layers override
// earlier ones.
type LocaleTable struct {
	mu      sync.RWMutex
	entries map[string]string
	files   []string
}

// NewLocaleTable builds a table from a base locale file
func NewLocaleTable(file string) (*LocaleTable, error) {
	t := &LocaleTable{entries: make(map[string]string)}
	if err := t.Merge(file); err != nil {
		return nil, err
	}
	return t, nil
}

// Merge overlays the entries of another locale file onto the table
func (t *LocaleTable) Merge(file string) error {
	if file == "" {
		return obserrors.LocaleError("merge_locale", obserrors.ErrLocaleLoad).WithDetail("cause", "no file")
	}

	cfg, err := ini.LoadSources(localeLoadOptions, file)
	if err != nil {
		return obserrors.LocaleError("merge_locale", obserrors.ErrLocaleLoad).
			WithDetail("file", file).
			WithDetail("cause", err.Error())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			t.entries[key.Name()] = localeEscapes.Replace(key.Value())
		}
	}
	t.files = append(t.files, file)
	return nil
}

// Get returns the localized string for key
func (t *LocaleTable) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// Text returns the localized string for key, or key itself when missing
func (t *LocaleTable) Text(key string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	return key
}

// Len returns the number of entries
func (t *LocaleTable) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Files returns the files merged into the table, base first
func (t *LocaleTable) Files() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.files...)
}

// Entries returns a copy of the table
func (t *LocaleTable) Entries() map[string]string {
	out := make(map[string]string)
	if t == nil {
		return out
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// FileFinder resolves a file relative to a loaded module's data directory
type FileFinder interface {
	FindDataFile(module, file string) (string, bool)
}

// LocaleLoader builds per-module locale tables from <data>/locale/<code>.ini
type LocaleLoader struct {
	files  FileFinder
	logger hclog.Logger
}

// NewLocaleLoader creates a loader resolving files through files
func NewLocaleLoader(files FileFinder, logger hclog.Logger) *LocaleLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LocaleLoader{
		files:  files,
		logger: logger.Named("locale"),
	}
}

// LocaleFile returns the data-relative path of a locale file
func LocaleFile(locale string) string {
	return LocaleDir + "/" + locale + LocaleExt
}

// Load builds the default-locale table of a module and overlays the active
// locale when it differs. It returns nil when the default table is missing;
// a missing or broken override only logs.
func (l *LocaleLoader) Load(module, defaultLocale, locale string) *LocaleTable {
	if module == "" || defaultLocale == "" || locale == "" {
		l.logger.Warn("invalid locale parameters", "module", module, "default_locale", defaultLocale, "locale", locale)
		return nil
	}
	if !ValidLocale(defaultLocale) {
		l.logger.Warn("rejected locale code", "module", module, "locale", defaultLocale)
		return nil
	}

	var table *LocaleTable
	if file, ok := l.files.FindDataFile(module, LocaleFile(defaultLocale)); ok {
		t, err := NewLocaleTable(file)
		if err != nil {
			l.logger.Warn("failed to parse locale text", "module", module, "locale", defaultLocale, "error", err)
		}
		table = t
	}

	if table == nil {
		l.logger.Warn("failed to load locale text for module", "locale", defaultLocale, "module", module)
		return nil
	}

	if strings.EqualFold(locale, defaultLocale) {
		return table
	}
	if !ValidLocale(locale) {
		l.logger.Warn("rejected locale code", "module", module, "locale", locale)
		return table
	}

	file, ok := l.files.FindDataFile(module, LocaleFile(locale))
	if !ok {
		l.logger.Warn("failed to load locale text for module", "locale", locale, "module", module)
		return table
	}
	if err := table.Merge(file); err != nil {
		l.logger.Warn("failed to load locale text for module", "locale", locale, "module", module, "error", err)
	}
	return table
}
