package pluginmodule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

func TestValidateDescriptorMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		desc  func() Descriptor
		field string
	}{
		{"source without name", func() Descriptor {
			s := nopSource("color_source", SourceTypeInput)
			s.GetName = nil
			return *s
		}, "get_name"},
		{"sync video input without width", func() Descriptor {
			s := nopSource("color_source", SourceTypeInput)
			s.OutputFlags = SourceVideo
			s.GetHeight = func(interface{}) uint32 { return 1 }
			return *s
		}, "get_width"},
		{"sync video input without height", func() Descriptor {
			s := nopSource("color_source", SourceTypeInput)
			s.OutputFlags = SourceVideo
			s.GetWidth = func(interface{}) uint32 { return 1 }
			return *s
		}, "get_height"},
		{"output without start", func() Descriptor {
			o := nopOutput("rtmp_output")
			o.Start = nil
			return *o
		}, "start"},
		{"encoded output without packet callback", func() Descriptor {
			o := nopOutput("rtmp_output")
			o.EncodedPacket = nil
			return *o
		}, "encoded_packet"},
		{"raw video output without video callback", func() Descriptor {
			o := nopOutput("ffmpeg_muxer")
			o.Flags = OutputVideo
			return *o
		}, "raw_video"},
		{"raw audio output without audio callback", func() Descriptor {
			o := nopOutput("wav_output")
			o.Flags = OutputAudio
			return *o
		}, "raw_audio"},
		{"encoder without encode", func() Descriptor {
			e := nopEncoder("ffmpeg_aac")
			e.Encode = nil
			return *e
		}, "encode"},
		{"audio encoder without frame size", func() Descriptor {
			e := nopEncoder("ffmpeg_aac")
			e.FrameSize = nil
			return *e
		}, "frame_size"},
		{"service without destroy", func() Descriptor {
			s := nopService("rtmp_common")
			s.Destroy = nil
			return *s
		}, "destroy"},
		{"modal ui without target", func() Descriptor {
			return ModalUI{ID: "props", Task: "properties", Exec: func(interface{}, interface{}) bool { return true }}
		}, "target"},
		{"modeless ui without create", func() Descriptor {
			return ModelessUI{ID: "props", Task: "properties", Target: "qt"}
		}, "create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateDescriptor(tt.desc())
			require.Error(t, err)
			assert.ErrorIs(t, err, obserrors.ErrMissingField)
			assert.Equal(t, tt.field, obserrors.GetDetails(err)["field"])
		})
	}
}

func TestValidateDescriptorAccepts(t *testing.T) {
	asyncInput := nopSource("v4l2_input", SourceTypeInput)
	asyncInput.OutputFlags = SourceVideo | SourceAsync

	videoEncoder := nopEncoder("obs_x264")
	videoEncoder.Type = EncoderVideo
	videoEncoder.FrameSize = nil

	rawOutput := nopOutput("ffmpeg_output")
	rawOutput.Flags = OutputAV
	rawOutput.EncodedPacket = nil
	rawOutput.RawVideo = func(interface{}, *VideoFrame) {}
	rawOutput.RawAudio = func(interface{}, *AudioData) {}

	tests := []struct {
		name     string
		desc     Descriptor
		category Category
	}{
		{"async video input needs no size", *asyncInput, CategoryInput},
		{"filter", *nopSource("crop_filter", SourceTypeFilter), CategoryFilter},
		{"transition", *nopSource("fade_transition", SourceTypeTransition), CategoryTransition},
		{"video encoder needs no frame size", *videoEncoder, CategoryEncoder},
		{"raw output", *rawOutput, CategoryOutput},
		{"service", *nopService("rtmp_custom"), CategoryService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := validateDescriptor(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestValidateUnknownSourceType(t *testing.T) {
	_, err := validateDescriptor(*nopSource("mystery", SourceType(7)))
	require.Error(t, err)
	assert.ErrorIs(t, err, obserrors.ErrUnknownSourceType)
}
