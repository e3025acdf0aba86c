package pluginmodule

import (
	"fmt"
	"reflect"
	"strings"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// Library is a module binary mapped into the process
type Library interface {
	// Path returns the file the library was opened from
	Path() string

	// Bind resolves the named export into fn, which must be a pointer to a
	// func variable. found is false when the library has no such export.
	Bind(symbol string, fn interface{}) (found bool, err error)

	// Close releases the library handle
	Close() error
}

// Opener maps a located binary into the process
type Opener interface {
	Open(path string) (Library, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(path string) (Library, error)

// Open calls f(path)
func (f OpenerFunc) Open(path string) (Library, error) {
	return f(path)
}

// NewOpener returns the opener for a configured loader name
func NewOpener(loader string) (Opener, error) {
	switch strings.ToLower(loader) {
	case "", LoaderGo:
		return GoPluginOpener{}, nil
	case LoaderNative:
		return NativeOpener{}, nil
	default:
		return nil, obserrors.ValidationError("new_opener", fmt.Errorf("%w: unknown loader %q", obserrors.ErrInvalidConfig, loader))
	}
}

// GoExportName converts a C-style export name to the exported Go identifier a
// Go module uses for it, e.g. obs_module_load becomes ObsModuleLoad.
func GoExportName(symbol string) string {
	parts := strings.Split(symbol, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// bindValue assigns a resolved Go value to the func variable fn points to.
// Exported func variables arrive as pointers and are dereferenced.
func bindValue(symbol string, value interface{}, fn interface{}) error {
	dst := reflect.ValueOf(fn)
	if dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Func {
		return obserrors.InternalError("bind_symbol", fmt.Errorf("bind target for %s must be a pointer to a func, got %T", symbol, fn))
	}
	target := dst.Elem()

	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Func {
		src = src.Elem()
	}

	if !src.IsValid() || src.Kind() != reflect.Func || src.IsNil() {
		return obserrors.SymbolError("bind_symbol", obserrors.ErrSymbolType).
			WithDetail("symbol", symbol).
			WithDetail("got", fmt.Sprintf("%T", value))
	}

	if !src.Type().AssignableTo(target.Type()) {
		return obserrors.SymbolError("bind_symbol", obserrors.ErrSymbolType).
			WithDetail("symbol", symbol).
			WithDetail("want", target.Type().String()).
			WithDetail("got", src.Type().String())
	}

	target.Set(src)
	return nil
}
