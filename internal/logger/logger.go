package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	base        zerolog.Logger
	out         io.Writer = os.Stderr
	initialized bool
)

// Init configures the global JSON logger. Logs go to stderr; stdout is
// reserved for reports.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Logger().Level(level)
	initialized = true
}

// SetOutput redirects the logger and re-initializes it.
func SetOutput(w io.Writer) {
	out = w
	Init()
}

// SetVerbose switches algorithm tracing on (debug level) or back to the
// configured level.
func SetVerbose(on bool) {
	if on {
		base = L().Level(zerolog.DebugLevel)
		return
	}
	base = L().Level(parseLevel(getenv("LOG_LEVEL", "info")))
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if !initialized {
		Init()
	}
	return &base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
