//go:build !(darwin || freebsd || linux)

package pluginmodule

import (
	obserrors "github.com/david50407/obs-studio/internal/errors"
)

// NativeOpener is unavailable on this platform
type NativeOpener struct{}

// Open always fails with ErrUnsupportedPlatform
func (NativeOpener) Open(path string) (Library, error) {
	return nil, obserrors.LoadError("open", obserrors.ErrUnsupportedPlatform).WithDetail("path", path)
}
