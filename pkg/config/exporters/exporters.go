// Package exporters writes configuration structs to yaml, json, toml and env files.
package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const ownerReadWriteAccess = 0600

// ToEnvFile writes the configuration to an environment file at the specified path.
// It formats the configuration as key-value pairs and writes them to the file.
// Returns an error if decoding the config, flattening, or file writing fails.
func ToEnvFile(cfg any, filename string, envPrefix string) error {
	m, err := toMap(cfg)
	if err != nil {
		return err
	}

	flat := make(map[string]string)
	flattenMap(strings.ToUpper(envPrefix), m, flat)

	lines := make([]string, 0, len(flat))
	for k, v := range flat {
		lines = append(lines, fmt.Sprintf(`%s="%s"`, k, v))
	}
	sort.Strings(lines)

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filename, []byte(content), ownerReadWriteAccess); err != nil {
		return fmt.Errorf("failed to write env to file: %w", err)
	}
	return nil
}

// ToYAMLFile writes the configuration to a YAML file at the specified path.
// Returns an error if decoding the config, marshaling to YAML, or file writing fails.
func ToYAMLFile(cfg any, filename string) error {
	m, err := toMap(cfg)
	if err != nil {
		return err
	}

	bb, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal map to yaml: %w", err)
	}
	if err := os.WriteFile(filename, bb, ownerReadWriteAccess); err != nil {
		return fmt.Errorf("failed to write yaml to file: %w", err)
	}
	return nil
}

// ToJSONFile writes the configuration to a JSON file at the specified path.
// Returns an error if decoding the config, marshaling to JSON, or file writing fails.
func ToJSONFile(cfg any, filename string) error {
	m, err := toMap(cfg)
	if err != nil {
		return err
	}

	bb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map to json: %w", err)
	}
	if err := os.WriteFile(filename, bb, ownerReadWriteAccess); err != nil {
		return fmt.Errorf("failed to write json to file: %w", err)
	}
	return nil
}

// ToTOMLFile writes the configuration to a TOML file at the specified path.
// Durations are written as strings such as "10s".
func ToTOMLFile(cfg any, filename string) error {
	m, err := toMap(cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, ownerReadWriteAccess)
	if err != nil {
		return fmt.Errorf("failed to open toml file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(stringifyDurations(m)); err != nil {
		return fmt.Errorf("failed to write toml to file: %w", err)
	}
	return nil
}

func toMap(cfg any) (map[string]any, error) {
	var m map[string]any
	if err := mapstructure.Decode(cfg, &m); err != nil {
		return nil, fmt.Errorf("failed to decode config to map: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("config appears empty or unsupported, nothing to write")
	}
	return m, nil
}

func stringifyDurations(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = stringifyDurations(val)
		case fmt.Stringer:
			out[k] = val.String()
		default:
			out[k] = v
		}
	}
	return out
}

func flattenMap(prefix string, input map[string]any, out map[string]string) {
	for k, v := range input {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flattenMap(key, val, out)
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}
