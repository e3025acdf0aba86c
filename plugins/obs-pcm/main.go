// obs-pcm provides an uncompressed PCM audio encoder and a null output that
// discards everything it is given.
//
// Build with: go build -buildmode=plugin -o obs-pcm.so ./plugins/obs-pcm
package main

import (
	"github.com/david50407/obs-studio/sdk"
)

const moduleName = "obs-pcm"

var text = sdk.NewModuleLocale(moduleName)

// ObsModuleLoad registers the module's types
func ObsModuleLoad(apiVersion uint32) bool {
	if !sdk.Compatible(apiVersion) {
		return false
	}

	if err := sdk.RegisterEncoder(pcmEncoderInfo()); err != nil {
		return false
	}
	if err := sdk.RegisterOutput(nullOutputInfo()); err != nil {
		return false
	}
	return true
}

// ObsModuleSetLocale loads the module's strings for locale
func ObsModuleSetLocale(locale string) {
	text.SetLocale(locale)
}

// ObsModuleUnload releases the module's strings
func ObsModuleUnload() {
	text.Free()
}

func main() {}
