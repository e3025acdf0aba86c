package pluginmodule

// Kind tags the descriptor variant
type Kind string

const (
	KindSource     Kind = "source"
	KindOutput     Kind = "output"
	KindEncoder    Kind = "encoder"
	KindService    Kind = "service"
	KindModalUI    Kind = "modal_ui"
	KindModelessUI Kind = "modeless_ui"
)

// Category names a typed collection of the registry. Sources are split into
// input, filter and transition collections by their declared type.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryFilter     Category = "filter"
	CategoryTransition Category = "transition"
	CategoryOutput     Category = "output"
	CategoryEncoder    Category = "encoder"
	CategoryService    Category = "service"
	CategoryModalUI    Category = "modal_ui"
	CategoryModelessUI Category = "modeless_ui"
)

// Categories lists every registry collection in display order
var Categories = []Category{
	CategoryInput, CategoryFilter, CategoryTransition,
	CategoryOutput, CategoryEncoder, CategoryService,
	CategoryModalUI, CategoryModelessUI,
}

// ParseCategory maps a category name to a Category
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Descriptor is a capability record a module registers with the host
type Descriptor interface {
	DescriptorID() string
	Kind() Kind
}

// Settings carries instance configuration between the host and a module
type Settings map[string]interface{}

// String returns a string setting or ""
func (s Settings) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Int returns an integer setting or 0
func (s Settings) Int(key string) int64 {
	switch v := s[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// SetDefault stores value under key unless key is already present
func (s Settings) SetDefault(key string, value interface{}) {
	if _, ok := s[key]; !ok {
		s[key] = value
	}
}

// SourceType routes a source descriptor to its collection
type SourceType uint32

const (
	SourceTypeInput SourceType = iota
	SourceTypeFilter
	SourceTypeTransition
)

// Source output flags
const (
	SourceVideo uint32 = 1 << iota
	SourceAudio
	SourceAsync
	SourceCustomDraw
)

// SourceInfo describes an input, filter or transition
type SourceInfo struct {
	ID          string
	Type        SourceType
	OutputFlags uint32

	GetName   func() string
	Create    func(settings Settings) (interface{}, error)
	Destroy   func(data interface{})
	GetWidth  func(data interface{}) uint32
	GetHeight func(data interface{}) uint32
	Defaults  func(settings Settings)
	Update    func(data interface{}, settings Settings)
}

func (i SourceInfo) DescriptorID() string { return i.ID }
func (i SourceInfo) Kind() Kind           { return KindSource }

// Category returns the collection the source belongs to
func (i SourceInfo) Category() (Category, bool) {
	switch i.Type {
	case SourceTypeInput:
		return CategoryInput, true
	case SourceTypeFilter:
		return CategoryFilter, true
	case SourceTypeTransition:
		return CategoryTransition, true
	}
	return "", false
}

// Output flags
const (
	OutputVideo uint32 = 1 << iota
	OutputAudio
	OutputEncoded
	OutputService

	OutputAV = OutputVideo | OutputAudio
)

// VideoFrame is raw video handed to an output
type VideoFrame struct {
	Data      [][]byte
	Linesize  []uint32
	Timestamp uint64
}

// AudioData is raw audio handed to an output
type AudioData struct {
	Data      [][]byte
	Frames    uint32
	Timestamp uint64
}

// EncoderPacket is an encoded packet
type EncoderPacket struct {
	Data     []byte
	PTS      int64
	DTS      int64
	Keyframe bool
	Type     EncoderType
}

// OutputInfo describes an output
type OutputInfo struct {
	ID    string
	Flags uint32

	GetName       func() string
	Create        func(settings Settings) (interface{}, error)
	Destroy       func(data interface{})
	Start         func(data interface{}) bool
	Stop          func(data interface{})
	RawVideo      func(data interface{}, frame *VideoFrame)
	RawAudio      func(data interface{}, audio *AudioData)
	EncodedPacket func(data interface{}, packet *EncoderPacket)
	Defaults      func(settings Settings)
	Update        func(data interface{}, settings Settings)
}

func (i OutputInfo) DescriptorID() string { return i.ID }
func (i OutputInfo) Kind() Kind           { return KindOutput }

// EncoderType is the media type an encoder consumes
type EncoderType uint32

const (
	EncoderAudio EncoderType = iota
	EncoderVideo
)

// EncoderFrame is raw media submitted to an encoder
type EncoderFrame struct {
	Data     [][]byte
	Linesize []uint32
	Frames   uint32
	PTS      int64
}

// EncoderInfo describes an encoder
type EncoderInfo struct {
	ID    string
	Type  EncoderType
	Codec string

	GetName   func() string
	Create    func(settings Settings) (interface{}, error)
	Destroy   func(data interface{})
	Encode    func(data interface{}, frame *EncoderFrame, packet *EncoderPacket) (received bool, err error)
	FrameSize func(data interface{}) uint32
	Defaults  func(settings Settings)
	Update    func(data interface{}, settings Settings) bool
	ExtraData func(data interface{}) ([]byte, bool)
}

func (i EncoderInfo) DescriptorID() string { return i.ID }
func (i EncoderInfo) Kind() Kind           { return KindEncoder }

// ServiceInfo describes a streaming service
type ServiceInfo struct {
	ID string

	GetName    func() string
	Create     func(settings Settings) (interface{}, error)
	Destroy    func(data interface{})
	Update     func(data interface{}, settings Settings)
	Initialize func(data interface{}, encoders Settings) bool
	URL        func(data interface{}) string
	Key        func(data interface{}) string
}

func (i ServiceInfo) DescriptorID() string { return i.ID }
func (i ServiceInfo) Kind() Kind           { return KindService }

// ModalUI describes a blocking UI hook for a task on a target toolkit
type ModalUI struct {
	ID     string
	Task   string
	Target string

	Exec func(data interface{}, uiData interface{}) bool
}

func (i ModalUI) DescriptorID() string { return i.ID }
func (i ModalUI) Kind() Kind           { return KindModalUI }

// ModelessUI describes a non-blocking UI hook for a task on a target toolkit
type ModelessUI struct {
	ID     string
	Task   string
	Target string

	Create func(data interface{}, uiData interface{}) interface{}
}

func (i ModelessUI) DescriptorID() string { return i.ID }
func (i ModelessUI) Kind() Kind           { return KindModelessUI }
