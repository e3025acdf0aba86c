package main

import (
	"sync/atomic"

	"github.com/david50407/obs-studio/sdk"
)

// nullOutput counts what it receives and drops it
type nullOutput struct {
	active  atomic.Bool
	frames  atomic.Int64
	packets atomic.Int64
}

func nullOutputInfo() *sdk.OutputInfo {
	return &sdk.OutputInfo{
		ID:    "null_output",
		Flags: sdk.OutputAV | sdk.OutputEncoded,

		GetName: func() string { return text.Text("NullOutput") },
		Create:  func(settings sdk.Settings) (interface{}, error) { return &nullOutput{}, nil },
		Destroy: func(data interface{}) {},
		Start: func(data interface{}) bool {
			data.(*nullOutput).active.Store(true)
			return true
		},
		Stop: func(data interface{}) {
			data.(*nullOutput).active.Store(false)
		},
		RawVideo: func(data interface{}, frame *sdk.VideoFrame) {
			if o := data.(*nullOutput); o.active.Load() {
				o.frames.Add(1)
			}
		},
		RawAudio: func(data interface{}, audio *sdk.AudioData) {
			if o := data.(*nullOutput); o.active.Load() {
				o.frames.Add(1)
			}
		},
		EncodedPacket: func(data interface{}, packet *sdk.EncoderPacket) {
			if o := data.(*nullOutput); o.active.Load() {
				o.packets.Add(1)
			}
		},
	}
}
