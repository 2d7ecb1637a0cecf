// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// DebugEnvVar switches debug logging on when set to 1 or true.
const DebugEnvVar = "ALEX_DEBUG"

// Options configures New.
type Options struct {
	Debug   bool
	Verbose bool
	Output  io.Writer
}

// New returns a logger writing to Output (stderr by default). Terminals get
// the console format, anything else gets JSON lines.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}

	level := zerolog.WarnLevel
	switch {
	case opts.Debug || DebugFromEnv():
		level = zerolog.DebugLevel
	case opts.Verbose:
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// DebugFromEnv reports whether ALEX_DEBUG asks for debug output.
func DebugFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(DebugEnvVar))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
