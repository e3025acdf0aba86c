package pluginmodule

import (
	"testing"
	"unsafe"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

func TestRegisterOutsideLoadMutatesNothing(t *testing.T) {
	r := NewTypeRegistry(nil)

	var rejected []string
	r.OnReject(func(module string, kind Kind, id string, err error) {
		rejected = append(rejected, id)
	})

	err := r.RegisterEncoder(nopEncoder("ffmpeg_aac"), unsafe.Sizeof(EncoderInfo{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, obserrors.ErrOutsideLoad)
	assert.Equal(t, obserrors.ErrorTypeRegistry, obserrors.GetType(err))

	require.Error(t, r.RegisterSource(nopSource("color_source", SourceTypeInput), unsafe.Sizeof(SourceInfo{})))
	require.Error(t, r.RegisterService(nopService("rtmp_common"), unsafe.Sizeof(ServiceInfo{})))

	assert.Empty(t, r.Types())
	assert.Equal(t, []string{"ffmpeg_aac", "color_source", "rtmp_common"}, rejected)
}

func TestRegisterRejectionLeavesCollectionUnchanged(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("obs-outputs"))

	require.NoError(t, r.RegisterOutput(nopOutput("rtmp_output"), unsafe.Sizeof(OutputInfo{})))

	broken := nopOutput("flv_output")
	broken.Stop = nil
	err := r.RegisterOutput(broken, unsafe.Sizeof(OutputInfo{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, obserrors.ErrMissingField)

	committed := r.CommitLoad()
	assert.Equal(t, []TypeInfo{{Category: CategoryOutput, ID: "rtmp_output", Module: "obs-outputs"}}, committed)
	assert.Equal(t, 1, r.Count(CategoryOutput))
}

func TestRegisterCopiesDescriptor(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("obs-ffmpeg"))

	info := nopEncoder("ffmpeg_aac")
	require.NoError(t, r.RegisterEncoder(info, unsafe.Sizeof(*info)))
	r.CommitLoad()

	info.ID = "mutated"
	info.Codec = "opus"

	reg, ok := r.FindEncoder("ffmpeg_aac")
	require.True(t, ok)
	assert.Equal(t, "aac", reg.Info.Codec)
	assert.Equal(t, "obs-ffmpeg", reg.Module)
	_, ok = r.FindEncoder("mutated")
	assert.False(t, ok)
}

func TestRegisterDeclaredPrefixDropsTrailingFields(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("old-module"))

	// An older module whose record ends before the optional callbacks
	info := nopService("rtmp_common")
	info.URL = func(interface{}) string { return "rtmp://example" }
	require.NoError(t, r.RegisterService(info, unsafe.Offsetof(info.Update)))
	r.CommitLoad()

	reg, ok := r.FindService("rtmp_common")
	require.True(t, ok)
	assert.NotNil(t, reg.Info.Destroy)
	assert.Nil(t, reg.Info.Update)
	assert.Nil(t, reg.Info.URL)
}

func TestRegisterRoutesSources(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("obs-filters"))

	size := unsafe.Sizeof(SourceInfo{})
	require.NoError(t, r.RegisterSource(nopSource("image_source", SourceTypeInput), size))
	require.NoError(t, r.RegisterSource(nopSource("crop_filter", SourceTypeFilter), size))
	require.NoError(t, r.RegisterSource(nopSource("fade_transition", SourceTypeTransition), size))
	err := r.RegisterSource(nopSource("mystery", SourceType(9)), size)
	assert.ErrorIs(t, err, obserrors.ErrUnknownSourceType)
	r.CommitLoad()

	require.Len(t, r.Inputs(), 1)
	require.Len(t, r.Filters(), 1)
	require.Len(t, r.Transitions(), 1)
	assert.Equal(t, "crop_filter", r.Filters()[0].Info.ID)

	reg, ok := r.FindSource("fade_transition")
	require.True(t, ok)
	assert.Equal(t, SourceTypeTransition, reg.Info.Type)
}

func TestDiscardLoadDropsStagedRegistrations(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("flaky"))
	require.NoError(t, r.RegisterEncoder(nopEncoder("flaky_enc"), unsafe.Sizeof(EncoderInfo{})))

	module, loading := r.Loading()
	assert.True(t, loading)
	assert.Equal(t, "flaky", module)

	r.DiscardLoad()

	_, loading = r.Loading()
	assert.False(t, loading)
	assert.Zero(t, r.Count(CategoryEncoder))
	assert.Nil(t, r.CommitLoad())
}

func TestCloseLoadRejectsLateRegistration(t *testing.T) {
	var rejected []string
	r := NewTypeRegistry(nil)
	r.OnReject(func(module string, kind Kind, id string, err error) {
		rejected = append(rejected, id)
	})

	require.NoError(t, r.BeginLoad("obs-x264"))
	require.NoError(t, r.RegisterEncoder(nopEncoder("obs_x264"), unsafe.Sizeof(EncoderInfo{})))
	r.CloseLoad()

	_, loading := r.Loading()
	assert.False(t, loading)

	err := r.RegisterEncoder(nopEncoder("obs_x264_late"), unsafe.Sizeof(EncoderInfo{}))
	assert.ErrorIs(t, err, obserrors.ErrOutsideLoad)
	assert.Equal(t, []string{"obs_x264_late"}, rejected)

	// the next module still has to wait for the commit
	assert.Error(t, r.BeginLoad("obs-qsv11"))

	committed := r.CommitLoad()
	require.Len(t, committed, 1)
	assert.Equal(t, "obs_x264", committed[0].ID)
	_, ok := r.FindEncoder("obs_x264_late")
	assert.False(t, ok)
}

func TestBeginLoadRejectsNestedWindow(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("first"))

	err := r.BeginLoad("second")
	require.Error(t, err)
	assert.Equal(t, obserrors.ErrorTypeRegistry, obserrors.GetType(err))

	module, _ := r.Loading()
	assert.Equal(t, "first", module)
}

func TestUIHooksLookup(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("frontend-tools"))

	require.NoError(t, r.RegisterModalUI(&ModalUI{
		ID: "scripts", Task: "scripts", Target: "qt",
		Exec: func(interface{}, interface{}) bool { return true },
	}, unsafe.Sizeof(ModalUI{})))
	require.NoError(t, r.RegisterModelessUI(&ModelessUI{
		ID: "output_timer", Task: "output_timer", Target: "qt",
		Create: func(interface{}, interface{}) interface{} { return nil },
	}, unsafe.Sizeof(ModelessUI{})))
	r.CommitLoad()

	_, ok := r.FindModalUI("scripts", "qt")
	assert.True(t, ok)
	_, ok = r.FindModalUI("scripts", "gtk")
	assert.False(t, ok)
	_, ok = r.FindModelessUI("output_timer", "qt")
	assert.True(t, ok)

	assert.Len(t, r.Types(CategoryModalUI, CategoryModelessUI), 2)
}

func TestRegistryLogsRejections(t *testing.T) {
	logger, buf := bufferLogger(hclog.Debug)
	r := NewTypeRegistry(logger)
	require.NoError(t, r.BeginLoad("obs-outputs"))

	broken := nopOutput("rtmp_output")
	broken.Start = nil
	require.Error(t, r.RegisterOutput(broken, unsafe.Sizeof(OutputInfo{})))

	assert.Contains(t, buf.String(), "descriptor rejected")
	assert.Contains(t, buf.String(), "field=start")
}

func TestRegistryNilDescriptor(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("m"))
	err := r.RegisterOutput(nil, 0)
	assert.ErrorIs(t, err, obserrors.ErrDescriptorRejected)
}

func TestRegistryReset(t *testing.T) {
	r := NewTypeRegistry(nil)
	require.NoError(t, r.BeginLoad("m"))
	require.NoError(t, r.RegisterService(nopService("svc"), unsafe.Sizeof(ServiceInfo{})))
	r.CommitLoad()

	r.Reset()
	assert.Empty(t, r.Types())
	assert.NoError(t, r.BeginLoad("again"))
}
