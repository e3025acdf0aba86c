package pluginmodule

import (
	"fmt"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// requirement is one category-required field and whether it is set
type requirement struct {
	field string
	set   bool
}

func firstMissing(reqs ...requirement) string {
	for _, r := range reqs {
		if !r.set {
			return r.field
		}
	}
	return ""
}

// validateDescriptor checks the category-required fields of a descriptor and
// returns the collection it belongs in.
func validateDescriptor(d Descriptor) (Category, error) {
	var (
		category Category
		field    string
	)

	switch info := d.(type) {
	case SourceInfo:
		field = firstMissing(
			requirement{"get_name", info.GetName != nil},
			requirement{"create", info.Create != nil},
			requirement{"destroy", info.Destroy != nil},
		)
		if field == "" && info.Type == SourceTypeInput &&
			info.OutputFlags&SourceVideo != 0 && info.OutputFlags&SourceAsync == 0 {
			field = firstMissing(
				requirement{"get_width", info.GetWidth != nil},
				requirement{"get_height", info.GetHeight != nil},
			)
		}
		if field == "" {
			c, ok := info.Category()
			if !ok {
				return "", obserrors.DescriptorError("register_source", obserrors.ErrUnknownSourceType).
					WithDetail("id", info.ID).
					WithDetail("type", uint32(info.Type))
			}
			category = c
		}

	case OutputInfo:
		category = CategoryOutput
		field = firstMissing(
			requirement{"get_name", info.GetName != nil},
			requirement{"create", info.Create != nil},
			requirement{"destroy", info.Destroy != nil},
			requirement{"start", info.Start != nil},
			requirement{"stop", info.Stop != nil},
		)
		if field == "" {
			if info.Flags&OutputEncoded != 0 {
				field = firstMissing(requirement{"encoded_packet", info.EncodedPacket != nil})
			} else {
				field = firstMissing(
					requirement{"raw_video", info.Flags&OutputVideo == 0 || info.RawVideo != nil},
					requirement{"raw_audio", info.Flags&OutputAudio == 0 || info.RawAudio != nil},
				)
			}
		}

	case EncoderInfo:
		category = CategoryEncoder
		field = firstMissing(
			requirement{"get_name", info.GetName != nil},
			requirement{"create", info.Create != nil},
			requirement{"destroy", info.Destroy != nil},
			requirement{"encode", info.Encode != nil},
			requirement{"frame_size", info.Type != EncoderAudio || info.FrameSize != nil},
		)

	case ServiceInfo:
		category = CategoryService
		field = firstMissing(
			requirement{"get_name", info.GetName != nil},
			requirement{"create", info.Create != nil},
			requirement{"destroy", info.Destroy != nil},
		)

	case ModalUI:
		category = CategoryModalUI
		field = firstMissing(
			requirement{"task", info.Task != ""},
			requirement{"target", info.Target != ""},
			requirement{"exec", info.Exec != nil},
		)

	case ModelessUI:
		category = CategoryModelessUI
		field = firstMissing(
			requirement{"task", info.Task != ""},
			requirement{"target", info.Target != ""},
			requirement{"create", info.Create != nil},
		)

	default:
		return "", obserrors.DescriptorError("register", fmt.Errorf("%w: unsupported descriptor %T", obserrors.ErrDescriptorRejected, d))
	}

	if field != "" {
		return "", obserrors.DescriptorError("register_"+string(d.Kind()), obserrors.ErrMissingField).
			WithDetail("id", d.DescriptorID()).
			WithDetail("field", field)
	}
	return category, nil
}
