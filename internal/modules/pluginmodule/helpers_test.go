package pluginmodule

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

const testExt = ".so"

// touch creates an empty file, making parent directories as needed
func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger(level hclog.Level) (hclog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  level,
		Output: buf,
	}), buf
}

// fakeLibrary records binds and closes for table and initializer tests
type fakeLibrary struct {
	path    string
	symbols map[string]interface{}
	closed  int
	onClose func()
	onBind  func(symbol string)
}

func (l *fakeLibrary) Path() string { return l.path }

func (l *fakeLibrary) Bind(symbol string, fn interface{}) (bool, error) {
	if l.onBind != nil {
		l.onBind(symbol)
	}
	value, ok := l.symbols[symbol]
	if !ok {
		return false, nil
	}
	return true, bindValue(symbol, value, fn)
}

func (l *fakeLibrary) Close() error {
	l.closed++
	if l.onClose != nil {
		l.onClose()
	}
	return nil
}

func nopSource(id string, typ SourceType) *SourceInfo {
	return &SourceInfo{
		ID:      id,
		Type:    typ,
		GetName: func() string { return id },
		Create:  func(Settings) (interface{}, error) { return struct{}{}, nil },
		Destroy: func(interface{}) {},
	}
}

func nopEncoder(id string) *EncoderInfo {
	return &EncoderInfo{
		ID:        id,
		Type:      EncoderAudio,
		Codec:     "aac",
		GetName:   func() string { return id },
		Create:    func(Settings) (interface{}, error) { return struct{}{}, nil },
		Destroy:   func(interface{}) {},
		Encode:    func(interface{}, *EncoderFrame, *EncoderPacket) (bool, error) { return true, nil },
		FrameSize: func(interface{}) uint32 { return 1024 },
	}
}

func nopOutput(id string) *OutputInfo {
	return &OutputInfo{
		ID:            id,
		Flags:         OutputAV | OutputEncoded,
		GetName:       func() string { return id },
		Create:        func(Settings) (interface{}, error) { return struct{}{}, nil },
		Destroy:       func(interface{}) {},
		Start:         func(interface{}) bool { return true },
		Stop:          func(interface{}) {},
		EncodedPacket: func(interface{}, *EncoderPacket) {},
	}
}

func nopService(id string) *ServiceInfo {
	return &ServiceInfo{
		ID:      id,
		GetName: func() string { return id },
		Create:  func(Settings) (interface{}, error) { return struct{}{}, nil },
		Destroy: func(interface{}) {},
	}
}
