package pluginmodule

import (
	"context"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

func TestServiceAdapter(t *testing.T) {
	ctx := context.Background()
	h := newTestHost(t)
	h.add(t, "obs-ffmpeg", Symbols{
		Load: func(uint32) bool {
			h.manager.Registry().RegisterEncoder(nopEncoder("ffmpeg_aac"), unsafe.Sizeof(EncoderInfo{}))
			return true
		},
		Unload: func() {},
	})
	h.add(t, "win-capture", Symbols{Load: func(uint32) bool { return false }})
	writeFile(t, filepath.Join(h.dataDir("obs-ffmpeg"), "locale", "en-US.ini"), "FFmpegAAC=\"FFmpeg AAC\"\n")

	svc := NewServiceAdapter(h.manager)

	info, err := svc.LoadModule(ctx, "obs-ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, "active", info.State)
	assert.True(t, info.HasUnload)
	assert.False(t, info.HasLocale)

	info, err = svc.LoadModule(ctx, "win-capture")
	assert.ErrorIs(t, err, obserrors.ErrModuleRejected)
	require.NotNil(t, info)
	assert.Equal(t, "rejected", info.State)

	modules, err := svc.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "obs-ffmpeg", modules[0].Name)
	require.Len(t, modules[0].Types, 1)
	assert.Equal(t, "encoder", modules[0].Types[0].Category)

	_, err = svc.GetModule(ctx, "ghost")
	assert.ErrorIs(t, err, obserrors.ErrModuleNotFound)

	types, err := svc.ListTypes(ctx, "encoder")
	require.NoError(t, err)
	assert.Len(t, types, 1)
	_, err = svc.ListTypes(ctx, "widget")
	assert.Equal(t, obserrors.ErrorTypeValidation, obserrors.GetType(err))

	path, err := svc.FindModuleFile(ctx, "obs-ffmpeg", "locale/en-US.ini")
	require.NoError(t, err)
	assert.FileExists(t, path)
	_, err = svc.FindModuleFile(ctx, "obs-ffmpeg", "missing.json")
	assert.Equal(t, obserrors.ErrorTypeNotFound, obserrors.GetType(err))
	_, err = svc.FindModuleFile(ctx, "win-capture", "x")
	assert.ErrorIs(t, err, obserrors.ErrModuleNotFound)
	path, err = svc.FindModuleFile(ctx, "obs-ffmpeg", "../../../../../../../../etc/passwd")
	assert.Equal(t, obserrors.ErrorTypeValidation, obserrors.GetType(err))
	assert.Empty(t, path)

	locale, err := svc.GetLocale(ctx, "obs-ffmpeg", "", "")
	require.NoError(t, err)
	assert.Equal(t, "FFmpeg AAC", locale.Entries["FFmpegAAC"])
	_, err = svc.GetLocale(ctx, "obs-ffmpeg", "ja-JP", "ja-JP")
	assert.ErrorIs(t, err, obserrors.ErrLocaleLoad)
	locale, err = svc.GetLocale(ctx, "obs-ffmpeg", "en-US", "../../../../tmp/secret")
	assert.Equal(t, obserrors.ErrorTypeValidation, obserrors.GetType(err))
	assert.Nil(t, locale)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attempted)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.TypeCounts["encoder"])
}

func TestServiceAdapterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewServiceAdapter(newTestHost(t).manager).LoadModule(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
