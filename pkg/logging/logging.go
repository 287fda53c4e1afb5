// Package logging configures the process wide gookit/slog logger.
package logging

import (
	"fmt"
	"strings"

	"github.com/gookit/slog"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the logger settings.
type Config struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	PrettyPrint bool   `mapstructure:"pretty_print"`
}

// DefaultConfig logs at info level in text format.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatText,
	}
}

var levels = map[string]slog.Level{
	"trace": slog.TraceLevel,
	"debug": slog.DebugLevel,
	"info":  slog.InfoLevel,
	"warn":  slog.WarnLevel,
	"error": slog.ErrorLevel,
	"fatal": slog.FatalLevel,
	"panic": slog.PanicLevel,
}

// ParseLevel resolves a level name, case insensitively.
func ParseLevel(name string) (slog.Level, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Configure applies cfg to the standard logger.
func Configure(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		slog.SetFormatter(slog.NewTextFormatter())
	case FormatJSON:
		slog.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
			f.PrettyPrint = cfg.PrettyPrint
		}))
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	slog.SetLogLevel(level)
	return nil
}
