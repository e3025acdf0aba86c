package sdk

import (
	"unsafe"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

// Each Register call declares the full size of the descriptor this SDK was
// compiled with; the host ignores fields past what it knows about.

// RegisterSource registers an input, filter or transition
func RegisterSource(info *SourceInfo) error {
	return pluginmodule.RegisterSource(info, unsafe.Sizeof(SourceInfo{}))
}

// RegisterOutput registers an output
func RegisterOutput(info *OutputInfo) error {
	return pluginmodule.RegisterOutput(info, unsafe.Sizeof(OutputInfo{}))
}

// RegisterEncoder registers an encoder
func RegisterEncoder(info *EncoderInfo) error {
	return pluginmodule.RegisterEncoder(info, unsafe.Sizeof(EncoderInfo{}))
}

// RegisterService registers a streaming service
func RegisterService(info *ServiceInfo) error {
	return pluginmodule.RegisterService(info, unsafe.Sizeof(ServiceInfo{}))
}

// RegisterModalUI registers a blocking UI hook
func RegisterModalUI(info *ModalUI) error {
	return pluginmodule.RegisterModalUI(info, unsafe.Sizeof(ModalUI{}))
}

// RegisterModelessUI registers a non-blocking UI hook
func RegisterModelessUI(info *ModelessUI) error {
	return pluginmodule.RegisterModelessUI(info, unsafe.Sizeof(ModelessUI{}))
}

// FindModuleFile returns the path of file inside a loaded module's data
// directory, or "" when either is missing
func FindModuleFile(module, file string) string {
	path, ok := pluginmodule.FindModuleFile(module, file)
	if !ok {
		return ""
	}
	return path
}
