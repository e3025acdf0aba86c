package pluginmodule

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/david50407/obs-studio/internal/errors"
)

func TestTableFindIsCaseInsensitive(t *testing.T) {
	table := NewModuleTable(nil)
	require.NoError(t, table.Insert(&LoadedModule{Name: "MyEnc"}))

	m, ok := table.Find("myenc")
	require.True(t, ok)
	assert.Equal(t, "MyEnc", m.Name)

	err := table.Insert(&LoadedModule{Name: "MYENC"})
	require.Error(t, err)
	assert.ErrorIs(t, err, obserrors.ErrAlreadyLoaded)
	assert.Equal(t, 1, table.Len())
}

func TestTableFindDataFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "services.json"), "{}")

	table := NewModuleTable(nil)
	require.NoError(t, table.Insert(&LoadedModule{Name: "rtmp-services", DataPath: filepath.ToSlash(dir) + "/"}))

	path, ok := table.FindDataFile("RTMP-Services", "services.json")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "services.json"), path)

	_, ok = table.FindDataFile("rtmp-services", "missing.json")
	assert.False(t, ok)
	_, ok = table.FindDataFile("unknown", "services.json")
	assert.False(t, ok)
}

func TestTableFindDataFileStaysInsideDataDir(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data", "rtmp-services")
	writeFile(t, filepath.Join(data, "services.json"), "{}")
	secret := writeFile(t, filepath.Join(dir, "secret.ini"), "password=hunter2\n")

	table := NewModuleTable(nil)
	require.NoError(t, table.Insert(&LoadedModule{Name: "rtmp-services", DataPath: filepath.ToSlash(data) + "/"}))

	for _, file := range []string{
		"../../secret.ini",
		"locale/../../../secret.ini",
		filepath.ToSlash(secret),
		"",
	} {
		path, ok := table.FindDataFile("rtmp-services", file)
		assert.False(t, ok, file)
		assert.Empty(t, path, file)
	}

	path, ok := table.FindDataFile("rtmp-services", "locale/../services.json")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(data, "services.json"), path)
}

func TestUnloadAllOrder(t *testing.T) {
	var calls []string

	module := func(name string, withUnload bool) *LoadedModule {
		lib := &fakeLibrary{path: name, onClose: func() { calls = append(calls, "close "+name) }}
		m := &LoadedModule{Name: name, library: lib}
		if withUnload {
			m.unload = func() { calls = append(calls, "unload "+name) }
		}
		return m
	}

	table := NewModuleTable(nil)
	require.NoError(t, table.Insert(module("first", true)))
	require.NoError(t, table.Insert(module("second", false)))
	require.NoError(t, table.Insert(module("third", true)))
	assert.Equal(t, []string{"first", "second", "third"}, table.Names())

	names := table.UnloadAll()

	assert.Equal(t, []string{"first", "second", "third"}, names)
	assert.Equal(t, []string{
		"unload first", "close first",
		"close second",
		"unload third", "close third",
	}, calls)
	assert.Zero(t, table.Len())
}

func TestReleaseRunsOnceAndSurvivesPanics(t *testing.T) {
	lib := &fakeLibrary{path: "crashy.so"}
	m := &LoadedModule{
		Name:    "crashy",
		library: lib,
		unload:  func() { panic("boom") },
	}

	table := NewModuleTable(nil)
	m.Release(table.logger)
	m.Release(table.logger)

	assert.Equal(t, 1, lib.closed)
}

func TestLoadedModuleCallbacks(t *testing.T) {
	m := &LoadedModule{Name: "m"}
	assert.False(t, m.HasLocaleCallback())
	assert.False(t, m.HasUnloadCallback())

	m.setLocale = func(string) {}
	m.unload = func() {}
	assert.True(t, m.HasLocaleCallback())
	assert.True(t, m.HasUnloadCallback())
}
