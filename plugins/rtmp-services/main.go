// rtmp-services provides the rtmp_common streaming service, backed by the
// services.json catalog shipped in the module's data directory.
//
// Build with: go build -buildmode=plugin -o rtmp-services.so ./plugins/rtmp-services
package main

import (
	"github.com/david50407/obs-studio/sdk"
)

const moduleName = "rtmp-services"

var text = sdk.NewModuleLocale(moduleName)

// ObsModuleLoad reads the service catalog and registers the service type
func ObsModuleLoad(apiVersion uint32) bool {
	if !sdk.Compatible(apiVersion) {
		return false
	}

	path := sdk.FindModuleFile(moduleName, servicesFile)
	if path == "" {
		return false
	}
	catalog, err := loadCatalog(path)
	if err != nil {
		return false
	}

	return sdk.RegisterService(commonServiceInfo(catalog)) == nil
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
