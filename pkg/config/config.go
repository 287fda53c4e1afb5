// Package config holds the process configuration of the output service and
// its loading and export.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/config/exporters"
	"github.com/4chain-ag/go-hw-outputs/pkg/config/loaders"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/logging"
	"github.com/4chain-ag/go-hw-outputs/pkg/server"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OUTPUTS"

// Config contains configuration settings for the output API and the device bridge it talks to.
type Config struct {
	Server server.Config    `mapstructure:"server"`
	Device transport.Config `mapstructure:"device"`
	Log    logging.Config   `mapstructure:"log"`
}

// Export writes the configuration to the file at the specified path.
// It formats the file content based on the file extension:
// - JSON for ".json" files
// - TOML for ".toml" files
// - Environment variables for ".env" or ".dotenv" files
// - YAML for ".yaml" or ".yml" files
func (c *Config) Export(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	var err error
	switch ext {
	case "json":
		err = exporters.ToJSONFile(c, path)
	case "toml":
		err = exporters.ToTOMLFile(c, path)
	case "env", "dotenv":
		err = exporters.ToEnvFile(c, path, EnvPrefix)
	default: // yaml, yml
		err = exporters.ToYAMLFile(c, path)
	}

	if err != nil {
		return fmt.Errorf("failed to export configuration: %w", err)
	}
	return nil
}

// NewDefault returns a Config with default HTTP server, device bridge and logger settings.
func NewDefault() Config {
	return Config{
		Server: server.DefaultConfig,
		Device: transport.Config{
			Kind:           transport.KindHTTP,
			URL:            "http://127.0.0.1:21325",
			Timeout:        30 * time.Second,
			MaxPayloadSize: wire.DefaultMaxPayloadSize,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads the configuration from defaults, the optional file at path and
// OUTPUTS_ prefixed environment variables, in increasing priority. An empty
// path falls back to loaders.DefaultConfigFilePath when it exists.
func Load(path string) (Config, error) {
	l := loaders.NewLoader(NewDefault, EnvPrefix)
	if path != "" {
		if err := l.SetConfigFilePath(path); err != nil {
			return Config{}, err
		}
	}

	cfg, err := l.Load()
	if err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
