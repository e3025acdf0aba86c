// Package sdk is the API a module binary builds against: descriptor types,
// registration calls, data file lookup and per-module locale tables.
//
// A module exports three functions:
//
//	func ObsModuleLoad(apiVersion uint32) bool
//	func ObsModuleSetLocale(locale string)
//	func ObsModuleUnload()
//
// Only ObsModuleLoad is required. Register* calls are accepted only while
// ObsModuleLoad runs.
package sdk

import (
	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

// Descriptor types
type (
	Settings      = pluginmodule.Settings
	SourceInfo    = pluginmodule.SourceInfo
	SourceType    = pluginmodule.SourceType
	OutputInfo    = pluginmodule.OutputInfo
	EncoderInfo   = pluginmodule.EncoderInfo
	EncoderType   = pluginmodule.EncoderType
	EncoderFrame  = pluginmodule.EncoderFrame
	EncoderPacket = pluginmodule.EncoderPacket
	VideoFrame    = pluginmodule.VideoFrame
	AudioData     = pluginmodule.AudioData
	ServiceInfo   = pluginmodule.ServiceInfo
	ModalUI       = pluginmodule.ModalUI
	ModelessUI    = pluginmodule.ModelessUI
)

const (
	SourceTypeInput      = pluginmodule.SourceTypeInput
	SourceTypeFilter     = pluginmodule.SourceTypeFilter
	SourceTypeTransition = pluginmodule.SourceTypeTransition

	EncoderAudio = pluginmodule.EncoderAudio
	EncoderVideo = pluginmodule.EncoderVideo
)

// Source output flags
const (
	SourceVideo      = pluginmodule.SourceVideo
	SourceAudio      = pluginmodule.SourceAudio
	SourceAsync      = pluginmodule.SourceAsync
	SourceCustomDraw = pluginmodule.SourceCustomDraw
)

// Output flags
const (
	OutputVideo   = pluginmodule.OutputVideo
	OutputAudio   = pluginmodule.OutputAudio
	OutputAV      = pluginmodule.OutputAV
	OutputEncoded = pluginmodule.OutputEncoded
	OutputService = pluginmodule.OutputService
)

// APIVersion is the host ABI version this SDK was built for
const APIVersion = pluginmodule.APIVersion

// DefaultLocale is the locale every module is expected to ship
const DefaultLocale = pluginmodule.DefaultLocale

// Compatible reports whether a module built against this SDK can run on a
// host passing apiVersion: the major versions must match.
func Compatible(apiVersion uint32) bool {
	return apiVersion>>24 == APIVersion>>24
}
