package pluginmodule

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandDir(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"/usr/lib/obs-plugins", "/usr/lib/obs-plugins/"},
		{"/usr/lib/obs-plugins/", "/usr/lib/obs-plugins/"},
		{`C:\obs\plugins\%module%\bin`, "C:/obs/plugins/obs-ffmpeg/bin/"},
		{"../../obs-plugins/%module%/data/%module%", "../../obs-plugins/obs-ffmpeg/data/obs-ffmpeg/"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandDir(tt.template, "obs-ffmpeg"))
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	pr := NewPathResolver("so")
	assert.Equal(t, ".so", pr.Extension())
	assert.Equal(t, []string{
		"/plugins/obs-ffmpeg/bin/obs-ffmpeg.so",
		"/plugins/obs-ffmpeg/bin/libobs-ffmpeg.so",
	}, pr.Candidates("/plugins/%module%/bin", "obs-ffmpeg"))
}

func TestResolvePrefersBareName(t *testing.T) {
	dir := filepath.ToSlash(t.TempDir())
	pr := NewPathResolver(testExt)

	touch(t, filepath.Join(dir, "libenc.so"))
	path, ok := pr.Resolve(dir, "enc")
	assert.True(t, ok)
	assert.Equal(t, dir+"/libenc.so", path)

	touch(t, filepath.Join(dir, "enc.so"))
	path, ok = pr.Resolve(dir, "enc")
	assert.True(t, ok)
	assert.Equal(t, dir+"/enc.so", path)

	_, ok = pr.Resolve(dir, "missing")
	assert.False(t, ok)
}

func TestResolveIgnoresDirectories(t *testing.T) {
	dir := filepath.ToSlash(t.TempDir())
	touch(t, filepath.Join(dir, "enc.so", "placeholder"))

	_, ok := NewPathResolver(testExt).Resolve(dir, "enc")
	assert.False(t, ok)
}

func TestModuleName(t *testing.T) {
	pr := NewPathResolver(testExt)

	name, ok := pr.ModuleName("libobs-ffmpeg.so")
	assert.True(t, ok)
	assert.Equal(t, "libobs-ffmpeg", name)

	_, ok = pr.ModuleName("readme.txt")
	assert.False(t, ok)
	_, ok = pr.ModuleName(".so")
	assert.False(t, ok)
}
