package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Init sets the global level from LOG_LEVEL (debug, info, warn, error).
// Defaults to info.
func Init() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// Info logs a printf-style message at info level
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn logs a printf-style message at warn level
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error logs a printf-style message at error level
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}

// Debug logs a printf-style message at debug level
func Debug(format string, args ...interface{}) {
	zlog.Debug().Msgf(format, args...)
}
