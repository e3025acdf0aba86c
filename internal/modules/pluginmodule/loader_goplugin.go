package pluginmodule

import (
	"plugin"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// GoPluginOpener opens modules built with -buildmode=plugin. Exports are
// looked up under their Go names (see GoExportName).
type GoPluginOpener struct{}

// Open loads the plugin at path
func (GoPluginOpener) Open(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, obserrors.LoadError("open", obserrors.ErrLoadFailed).
			WithDetail("path", path).
			WithDetail("cause", err.Error())
	}
	return &goPluginLibrary{path: path, plugin: p}, nil
}

type goPluginLibrary struct {
	path   string
	plugin *plugin.Plugin
}

func (l *goPluginLibrary) Path() string {
	return l.path
}

func (l *goPluginLibrary) Bind(symbol string, fn interface{}) (bool, error) {
	sym, err := l.plugin.Lookup(GoExportName(symbol))
	if err != nil {
		return false, nil
	}
	if err := bindValue(symbol, sym, fn); err != nil {
		return true, err
	}
	return true, nil
}

// Close is a no-op: the Go runtime cannot unmap a plugin once opened.
func (l *goPluginLibrary) Close() error {
	return nil
}
