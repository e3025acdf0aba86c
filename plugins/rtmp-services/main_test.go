package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
	"github.com/david50407/obs-studio/sdk"
)

func newManager(t *testing.T, dataDir string) *pluginmodule.ModuleManager {
	t.Helper()
	bin := filepath.ToSlash(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(bin, "lib"+moduleName+".so"), nil, 0644))

	opener := pluginmodule.NewStaticOpener(".so")
	opener.Add(moduleName, pluginmodule.Symbols{
		Load:      ObsModuleLoad,
		SetLocale: ObsModuleSetLocale,
		Unload:    ObsModuleUnload,
	})

	m := pluginmodule.NewModuleManager(pluginmodule.ManagerOptions{Opener: opener, Extension: ".so", Locale: "fr-FR"})
	m.AddSearchRoot(bin, filepath.ToSlash(dataDir))

	prev := pluginmodule.SetDefault(m)
	t.Cleanup(func() {
		m.UnloadAll()
		pluginmodule.SetDefault(prev)
	})
	return m
}

func TestModuleRegistersService(t *testing.T) {
	data, err := filepath.Abs("data")
	require.NoError(t, err)
	m := newManager(t, data)

	require.NoError(t, m.LoadModule(moduleName))

	reg, ok := m.Registry().FindService("rtmp_common")
	require.True(t, ok)
	assert.Equal(t, moduleName, reg.Module)
	assert.Equal(t, "Services de streaming", reg.Info.GetName())

	status, _ := m.Status(moduleName)
	manifest, err := pluginmodule.NewManifestParser().ParseDir(status.DataPath)
	require.NoError(t, err)

	settings := manifest.DefaultsFor("rtmp_common")
	settings["key"] = "live_123"
	svc, err := reg.Info.Create(settings)
	require.NoError(t, err)
	assert.Equal(t, "rtmp://live.twitch.tv/app", reg.Info.URL(svc))
	assert.Equal(t, "live_123", reg.Info.Key(svc))
	assert.True(t, reg.Info.Initialize(svc, nil))
}

func TestModuleRejectedWithoutCatalog(t *testing.T) {
	m := newManager(t, t.TempDir())

	err := m.LoadModule(moduleName)
	require.Error(t, err)

	status, _ := m.Status(moduleName)
	assert.Equal(t, pluginmodule.StateRejected, status.State)
	assert.Zero(t, m.Registry().Count(pluginmodule.CategoryService))
}

func TestServiceUpdate(t *testing.T) {
	catalog, err := loadCatalog(filepath.Join("data", servicesFile))
	require.NoError(t, err)
	info := commonServiceInfo(catalog)

	svc, err := info.Create(sdk.Settings{"service": "youtube - rtmps", "server": "Backup"})
	require.NoError(t, err)
	assert.Equal(t, "rtmps://b.rtmps.youtube.com:443/live2?backup=1", info.URL(svc))

	info.Update(svc, sdk.Settings{"service": "Nowhere"})
	assert.Equal(t, "rtmps://b.rtmps.youtube.com:443/live2?backup=1", info.URL(svc))

	info.Update(svc, sdk.Settings{"service": "Twitch", "server": "rtmp://sea.contribute.live-video.net/app"})
	assert.Equal(t, "rtmp://sea.contribute.live-video.net/app", info.URL(svc))

	_, err = info.Create(sdk.Settings{"service": "Nowhere"})
	assert.Error(t, err)
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadCatalog(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"services":[]}`), 0644))
	_, err = loadCatalog(empty)
	assert.ErrorContains(t, err, "lists no services")
}
