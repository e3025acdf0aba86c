// Package logger owns the process-wide hclog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Options controls how the process logger is built
type Options struct {
	Level  string
	Format string // "text" or "json"
	Color  bool
	Output io.Writer
}

var (
	mu   sync.RWMutex
	root hclog.Logger = hclog.New(&hclog.LoggerOptions{
		Name:  "obs",
		Level: levelFromEnv(),
	})
)

// Init replaces the process logger
func Init(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	color := hclog.ColorOff
	if opts.Color && !strings.EqualFold(opts.Format, "json") {
		color = hclog.AutoColor
	}

	l := hclog.New(&hclog.LoggerOptions{
		Name:       "obs",
		Level:      hclog.LevelFromString(opts.Level),
		JSONFormat: strings.EqualFold(opts.Format, "json"),
		Color:      color,
		Output:     output,
	})

	mu.Lock()
	root = l
	mu.Unlock()
	return l
}

// L returns the process logger
func L() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a sub-logger of the process logger
func Named(name string) hclog.Logger {
	return L().Named(name)
}

// Info logs informational messages with key/value pairs
func Info(msg string, args ...interface{}) {
	L().Info(msg, args...)
}

// Warn logs warning messages
func Warn(msg string, args ...interface{}) {
	L().Warn(msg, args...)
}

// Error logs error messages
func Error(msg string, args ...interface{}) {
	L().Error(msg, args...)
}

// Debug logs debug messages
func Debug(msg string, args ...interface{}) {
	L().Debug(msg, args...)
}

func levelFromEnv() hclog.Level {
	if lvl := os.Getenv("OBS_LOG_LEVEL"); lvl != "" {
		return hclog.LevelFromString(lvl)
	}
	return hclog.Info
}
