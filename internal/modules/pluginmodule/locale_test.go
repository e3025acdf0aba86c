package pluginmodule

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFinder resolves data files under one directory and records lookups
type recordingFinder struct {
	dir     string
	lookups []string
}

func (f *recordingFinder) FindDataFile(module, file string) (string, bool) {
	f.lookups = append(f.lookups, file)
	path := filepath.Join(f.dir, filepath.FromSlash(file))
	if !fileExists(path) {
		return "", false
	}
	return path, true
}

func TestLocaleDefaultOnlyLoadsBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locale", "en-US.ini"), "FFmpegAAC=\"FFmpeg AAC\"\n")

	finder := &recordingFinder{dir: dir}
	table := NewLocaleLoader(finder, nil).Load("obs-ffmpeg", "en-US", "en-US")

	require.NotNil(t, table)
	assert.Equal(t, "FFmpeg AAC", table.Text("FFmpegAAC"))
	assert.Equal(t, []string{"locale/en-US.ini"}, finder.lookups)
}

func TestLocaleSameLocaleIgnoresCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locale", "en-US.ini"), "A=1\n")

	finder := &recordingFinder{dir: dir}
	table := NewLocaleLoader(finder, nil).Load("m", "en-US", "en-us")

	require.NotNil(t, table)
	assert.Len(t, finder.lookups, 1)
}

func TestLocaleMissingOverrideKeepsBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locale", "en-US.ini"), "Bitrate=Bitrate\nStreamingServices=\"Streaming Services\"\n")

	logger, buf := bufferLogger(hclog.Warn)
	table := NewLocaleLoader(&recordingFinder{dir: dir}, logger).Load("rtmp-services", "en-US", "fr-FR")

	require.NotNil(t, table)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "Streaming Services", table.Text("StreamingServices"))
	assert.Contains(t, buf.String(), "failed to load locale text for module")
	assert.Contains(t, buf.String(), "locale=fr-FR")
}

func TestLocaleOverrideMergesOverBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locale", "en-US.ini"), "Bitrate=Bitrate\nKeyframe=\"Keyframe Interval\"\n")
	writeFile(t, filepath.Join(dir, "locale", "fr-FR.ini"), "Bitrate=\"Débit\"\n")

	table := NewLocaleLoader(&recordingFinder{dir: dir}, nil).Load("obs-ffmpeg", "en-US", "fr-FR")

	require.NotNil(t, table)
	assert.Equal(t, "Débit", table.Text("Bitrate"))
	assert.Equal(t, "Keyframe Interval", table.Text("Keyframe"))
	assert.Len(t, table.Files(), 2)
}

func TestLocaleMissingBaseReturnsNil(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "locale", "fr-FR.ini"), "Bitrate=Débit\n")

	logger, buf := bufferLogger(hclog.Warn)
	table := NewLocaleLoader(&recordingFinder{dir: dir}, logger).Load("obs-ffmpeg", "en-US", "fr-FR")

	assert.Nil(t, table)
	assert.Contains(t, buf.String(), "locale=en-US")

	// A nil table still answers with the key
	assert.Equal(t, "Bitrate", table.Text("Bitrate"))
	assert.Zero(t, table.Len())
}

func TestLocaleInvalidParameters(t *testing.T) {
	l := NewLocaleLoader(&recordingFinder{dir: t.TempDir()}, nil)
	assert.Nil(t, l.Load("", "en-US", "en-US"))
	assert.Nil(t, l.Load("m", "", "en-US"))
	assert.Nil(t, l.Load("m", "en-US", ""))
}

func TestLocaleRejectsPathLikeCodes(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data", "obs-ffmpeg")
	writeFile(t, filepath.Join(data, "locale", "en-US.ini"), "FFmpegAAC=\"FFmpeg AAC\"\n")
	writeFile(t, filepath.Join(dir, "secret.ini"), "password=hunter2\n")

	logger, buf := bufferLogger(hclog.Warn)
	finder := &recordingFinder{dir: data}
	l := NewLocaleLoader(finder, logger)

	table := l.Load("obs-ffmpeg", "en-US", "../../../secret")
	require.NotNil(t, table)
	assert.Equal(t, []string{"locale/en-US.ini"}, finder.lookups)
	_, ok := table.Get("password")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "rejected locale code")

	assert.Nil(t, l.Load("obs-ffmpeg", "../../../secret", "en-US"))
	assert.Equal(t, []string{"locale/en-US.ini"}, finder.lookups)
}

func TestValidLocale(t *testing.T) {
	for _, code := range []string{"en", "en-US", "zh_Hant_TW", "fil-PH", "es-419"} {
		assert.True(t, ValidLocale(code), code)
	}
	for _, code := range []string{"", "e", "english", "en-", "../en-US", "en-US/../x", "en US", "/etc/passwd"} {
		assert.False(t, ValidLocale(code), code)
	}
}

func TestLocaleTableParsing(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "en-US.ini"), `# comment
Plain=value with spaces
Quoted="quoted ; not a comment"
Escaped="line one\nline two\tend"
`)

	table, err := NewLocaleTable(file)
	require.NoError(t, err)
	assert.Equal(t, "value with spaces", table.Text("Plain"))
	assert.Equal(t, "quoted ; not a comment", table.Text("Quoted"))
	assert.Equal(t, "line one\nline two\tend", table.Text("Escaped"))
	assert.Equal(t, "Missing", table.Text("Missing"))

	_, ok := table.Get("Missing")
	assert.False(t, ok)
}

func TestLocaleTableMissingFile(t *testing.T) {
	_, err := NewLocaleTable(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}

func TestLocaleFile(t *testing.T) {
	assert.Equal(t, "locale/en-US.ini", LocaleFile("en-US"))
}
