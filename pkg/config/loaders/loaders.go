package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultConfigFilePath is read when no file was set and it exists.
const DefaultConfigFilePath = "outputctl.yaml"

// ErrUnsupportedExtension is returned for config files of an unknown format.
var ErrUnsupportedExtension = errors.New("unsupported config file extension")

// viper config type per accepted file extension.
var fileTypes = map[string]string{
	"yaml":   "yaml",
	"yml":    "yaml",
	"json":   "json",
	"toml":   "toml",
	"env":    "env",
	"dotenv": "env",
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Loader builds a configuration of type T from defaults, an optional file and
// environment variables, in increasing priority. Nested keys are read from
// <PREFIX>_<SECTION>_<KEY> variables, e.g. server.port from OUTPUTS_SERVER_PORT.
type Loader[T any] struct {
	defaults  func() T
	envPrefix string
	path      string
	fileType  string
	used      string
}

// NewLoader returns a loader for T. defaults is called on every Load.
// Supported file extensions include: yaml, yml, json, toml, dotenv, and env.
func NewLoader[T any](defaults func() T, envPrefix string) *Loader[T] {
	return &Loader[T]{
		defaults:  defaults,
		envPrefix: envPrefix,
	}
}

// SetConfigFilePath makes Load read path, which then has to exist.
func (l *Loader[T]) SetConfigFilePath(path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	fileType, ok := fileTypes[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	l.path = path
	l.fileType = fileType
	return nil
}

// ConfigFileUsed returns the file read by the last Load, empty when none was.
func (l *Loader[T]) ConfigFileUsed() string {
	return l.used
}

// Load returns the defaults overridden by the config file and the environment.
// Duration fields accept strings such as "30s".
func (l *Loader[T]) Load() (T, error) {
	cfg := l.defaults()
	v := viper.New()

	if err := setDefaults(v, cfg); err != nil {
		return cfg, err
	}
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := l.readFile(v); err != nil {
		return cfg, err
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every leaf of cfg under its dotted key, which is what
// makes the leaf visible to AutomaticEnv.
func setDefaults(v *viper.Viper, cfg any) error {
	var tree map[string]any
	if err := mapstructure.Decode(cfg, &tree); err != nil {
		return fmt.Errorf("failed to collect configuration defaults: %w", err)
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	return nil
}

func flatten(prefix string, tree map[string]any) map[string]any {
	leaves := make(map[string]any, len(tree))
	for k, value := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := value.(map[string]any); ok {
			for sk, sv := range flatten(key, sub) {
				leaves[sk] = sv
			}
			continue
		}
		leaves[key] = value
	}
	return leaves
}

func (l *Loader[T]) readFile(v *viper.Viper) error {
	path, fileType := l.path, l.fileType
	if path == "" {
		if _, err := os.Stat(DefaultConfigFilePath); err != nil {
			return nil
		}
		path, fileType = DefaultConfigFilePath, "yaml"
	}

	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	l.used = path

	if fileType == "env" {
		// .env keys are flat, map OUTPUTS_SERVER_PORT onto server.port.
		prefix := ""
		if l.envPrefix != "" {
			prefix = l.envPrefix + "_"
		}
		for _, key := range v.AllKeys() {
			v.RegisterAlias(prefix+envKeyReplacer.Replace(key), key)
		}
	}
	return nil
}
