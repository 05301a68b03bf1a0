package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. Prefer the printf helpers below; use Log
// directly when structured fields are needed.
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Setup configures level and output. Development gets a human readable console writer.
func Setup(level, environment string) {
	var out io.Writer = os.Stdout
	if environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	Log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func Info(format string, v ...interface{}) {
	Log.Info().CallerSkipFrame(1).Caller().Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	Log.Error().CallerSkipFrame(1).Caller().Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	Log.Debug().CallerSkipFrame(1).Caller().Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	Log.Warn().CallerSkipFrame(1).Caller().Msgf(format, v...)
}
