// Package commands implements the outputctl command line.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/4chain-ag/go-hw-outputs/pkg/config"
	"github.com/4chain-ag/go-hw-outputs/pkg/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "outputctl",
	Version:       Version,
	Short:         "outputctl - transmit transaction outputs to a hardware signing device",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// RootCmd returns the root command.
func RootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, yml, json, toml, env, dotenv)")
}

// loadConfig reads the configuration and applies its logger settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := logging.Configure(cfg.Log); err != nil {
		return config.Config{}, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// readOutputParams decodes the JSON output description from path, or from
// stdin when path is "-". Numbers keep their exact decimal form.
func readOutputParams(cmd *cobra.Command, path string) (map[string]any, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open output file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode output file: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("output file does not hold a JSON object")
	}
	return raw, nil
}

// printJSON writes v to the command output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
