package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

// NewLogger writes to stdout and, when the log directory is writable, to
// agent.log in it. The returned func closes the file sink.
func NewLogger(config model.Config, app string) (zerolog.Logger, func()) {
	var console io.Writer = os.Stdout
	if !strings.EqualFold(config.LogFormat, "json") {
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	writers := []io.Writer{console}
	closeFn := func() {}
	if f, err := openLogFile(ResolveLogDir(config.LogDir)); err == nil {
		writers = append(writers, f)
		closeFn = func() { _ = f.Close() }
	}

	level, _ := ParseLogLevel(config.LogLevel)
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("app", app).
		Logger()
	log.Logger = logger
	return logger, closeFn
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, model.LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

func ParseLogLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "", "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
