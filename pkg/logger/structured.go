package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitStructured initializes the structured zerolog logger on stdout
func InitStructured(env string) {
	InitStructuredTo(env, os.Stdout)
}

// InitStructuredTo initializes the structured logger on out.
// CLIs that print results to stdout pass os.Stderr.
func InitStructuredTo(env string, out io.Writer) {
	w := out
	if isDevelopment(env) {
		// Pretty console output for development
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "emojitopng-backend").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// SetOutput redirects the global logger, mainly for tests
func SetOutput(w io.Writer) {
	zlog = zlog.Output(w)
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) *zerolog.Logger {
	l := zlog.With().Str("request_id", requestID).Logger()
	return &l
}

// WithComponent returns a logger tagged with a component name
func WithComponent(name string) *zerolog.Logger {
	l := zlog.With().Str("component", name).Logger()
	return &l
}

func isDevelopment(env string) bool {
	return env == "development" || env == "dev" || env == "local"
}
