package pluginmodule

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// ModuleInitializer resolves and invokes a module's load entry point
type ModuleInitializer struct {
	apiVersion uint32
	logger     hclog.Logger
}

// NewModuleInitializer creates an initializer passing apiVersion to entry points
func NewModuleInitializer(apiVersion uint32, logger hclog.Logger) *ModuleInitializer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModuleInitializer{
		apiVersion: apiVersion,
		logger:     logger.Named("initializer"),
	}
}

// Call runs the module's load entry point. It returns a symbol error when the
// entry point is missing, a rejected error when it returns false and a failed
// error when it panics. The caller owns lib on every path.
func (i *ModuleInitializer) Call(lib Library, name string) error {
	var load func(uint32) bool

	found, err := lib.Bind(SymbolModuleLoad, &load)
	if err != nil {
		i.logger.Error("module entry point has wrong signature", "module", name, "symbol", SymbolModuleLoad, "error", err)
		return obserrors.Wrap(err, obserrors.ErrorTypeSymbol, "call_module_load")
	}
	if !found {
		i.logger.Error("required module function not found, loading of module failed",
			"symbol", SymbolModuleLoad, "module", name, "path", lib.Path())
		return obserrors.SymbolError("call_module_load", obserrors.ErrRequiredSymbolMissing).
			WithModule(name).
			WithDetail("symbol", SymbolModuleLoad)
	}

	ok, err := i.invoke(load, name)
	if err != nil {
		return err
	}
	if !ok {
		i.logger.Error("module failed to load: entry point returned false", "module", name, "api_version", APIVersionString(i.apiVersion))
		return obserrors.RejectedError("call_module_load", obserrors.ErrModuleRejected).WithModule(name)
	}

	return nil
}

func (i *ModuleInitializer) invoke(load func(uint32) bool, name string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("module entry point panicked", "module", name, "panic", fmt.Sprint(r))
			err = obserrors.FailedError("call_module_load", obserrors.ErrModulePanicked).
				WithModule(name).
				WithDetail("panic", fmt.Sprint(r))
		}
	}()
	return load(i.apiVersion), nil
}
