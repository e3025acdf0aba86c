package main

import (
	"fmt"

	"github.com/david50407/obs-studio/sdk"
)

const (
	pcmFrameSize      = 1024
	pcmBytesPerSample = 2
	defaultChannels   = 2
)

// pcmEncoder packs interleaved 16-bit samples into fixed-size packets
type pcmEncoder struct {
	channels int
	pending  []byte
	packets  int64
}

func pcmEncoderInfo() *sdk.EncoderInfo {
	return &sdk.EncoderInfo{
		ID:    "pcm_s16le",
		Type:  sdk.EncoderAudio,
		Codec: "pcm_s16le",

		GetName: func() string { return text.Text("PCMEncoder") },
		Create: func(settings sdk.Settings) (interface{}, error) {
			channels := int(settings.Int("channels"))
			if channels == 0 {
				channels = defaultChannels
			}
			if channels < 0 || channels > 8 {
				return nil, fmt.Errorf("unsupported channel count %d", channels)
			}
			return &pcmEncoder{channels: channels}, nil
		},
		Destroy: func(data interface{}) {},
		Defaults: func(settings sdk.Settings) {
			settings.SetDefault("channels", defaultChannels)
		},
		FrameSize: func(data interface{}) uint32 { return pcmFrameSize },
		Encode: func(data interface{}, frame *sdk.EncoderFrame, packet *sdk.EncoderPacket) (bool, error) {
			return data.(*pcmEncoder).encode(frame, packet)
		},
	}
}

func (e *pcmEncoder) packetBytes() int {
	return pcmFrameSize * e.channels * pcmBytesPerSample
}

func (e *pcmEncoder) encode(frame *sdk.EncoderFrame, packet *sdk.EncoderPacket) (bool, error) {
	if frame == nil || len(frame.Data) == 0 {
		return false, fmt.Errorf("empty audio frame")
	}
	e.pending = append(e.pending, frame.Data[0]...)

	size := e.packetBytes()
	if len(e.pending) < size {
		return false, nil
	}

	packet.Data = append(packet.Data[:0], e.pending[:size]...)
	packet.PTS = e.packets * pcmFrameSize
	packet.DTS = packet.PTS
	packet.Keyframe = true
	packet.Type = sdk.EncoderAudio

	e.pending = append(e.pending[:0], e.pending[size:]...)
	e.packets++
	return true, nil
}
