package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yukikurage/project-task-api/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// New builds the application logger for the given environment. An
// explicit level overrides the environment default.
func New(env, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stdout, env, level)
}

func NewWithWriter(out io.Writer, env, level string) (zerolog.Logger, error) {
	w := out
	lvl := zerolog.InfoLevel

	switch env {
	case config.EnvProd:
		lvl = zerolog.InfoLevel
	case config.EnvDev:
		lvl = zerolog.DebugLevel
	case config.EnvLocal:
		lvl = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = out
		w = consoleWriter
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger(), nil
}
