package pluginmodule

import (
	"fmt"
	"runtime"
)

// Host ABI version passed to every module entry point
const (
	APIMajorVersion = 0
	APIMinorVersion = 3
	APIPatchVersion = 0

	APIVersion uint32 = APIMajorVersion<<24 | APIMinorVersion<<16 | APIPatchVersion
)

// Exported module symbols
const (
	SymbolModuleLoad      = "obs_module_load"
	SymbolModuleSetLocale = "obs_module_set_locale"
	SymbolModuleUnload    = "obs_module_unload"
)

// Path templating
const (
	ModulePlaceholder = "%module%"
	LibraryPrefix     = "lib"
	LocaleDir         = "locale"
	LocaleExt         = ".ini"
	ManifestFile      = "module.cue"
)

// Default locale values
const (
	DefaultLocale = "en-US"
)

// Loader names accepted in configuration
const (
	LoaderGo     = "go"
	LoaderNative = "native"
)

// Environment Variable Names
const (
	EnvModulePath = "OBS_MODULE_PATH"
	EnvModuleData = "OBS_MODULE_DATA"
)

// Module states
const (
	StateLocating     ModuleState = "locating"
	StateLoading      ModuleState = "loading"
	StateInitializing ModuleState = "initializing"
	StateActive       ModuleState = "active"
	StateRejected     ModuleState = "rejected"
	StateFailed       ModuleState = "failed"
	StateUnloaded     ModuleState = "unloaded"
)

// ModuleExtension returns the platform's shared library extension
func ModuleExtension() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin":
		return ".dylib"
	default:
		return ".so"
	}
}

// APIVersionString renders a packed ABI version as major.minor.patch
func APIVersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>24, (v>>16)&0xff, v&0xffff)
}
