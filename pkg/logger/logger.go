// Package logger provides the process-wide zerolog logger.
//
// Call Init once at startup; Get returns the same logger afterwards.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else is info.
	Level string
	// Pretty switches to coloured console output for local development.
	Pretty bool
	// Service is attached to every entry as "service" when set.
	Service string
	Output  io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// New builds a logger without touching the singleton.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// Init sets the process logger. Only the first call has any effect.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opts)
		instance = &l
	}
	return *instance
}

// Get returns the process logger, or a no-op logger before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		return zerolog.Nop()
	}
	return *instance
}

// Reset drops the process logger. Tests only.
func Reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
