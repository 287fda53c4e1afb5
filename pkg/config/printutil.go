package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gookit/slog"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedPrintFormat is returned when an unsupported print format is provided.
var ErrUnsupportedPrintFormat = errors.New("unsupported print format")

// PrettyPrint logs the configuration in YAML.
func PrettyPrint(cfg any) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config for printing: %w", err)
	}

	slog.Info("Loaded Configuration:\n" + string(data))
	return nil
}

// PrettyPrintJSON logs the configuration in JSON format.
func PrettyPrintJSON(cfg any) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	slog.Info("Loaded Configuration (JSON):\n" + string(data))
	return nil
}

// PrettyPrintAs logs the configuration in the specified format (JSON or YAML).
func PrettyPrintAs(cfg any, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return PrettyPrintJSON(cfg)
	case "yaml", "yml":
		return PrettyPrint(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPrintFormat, format)
	}
}
