package commands

import (
	"fmt"

	"github.com/4chain-ag/go-hw-outputs/pkg/config"
	"github.com/4chain-ag/go-hw-outputs/pkg/config/loaders"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	regenToken bool
	outputFile string
)

var exportConfigCmd = &cobra.Command{
	Use:   "export-config",
	Short: "write the default configuration to a file",
	Long:  "Writes the default configuration, or the one loaded with --config, to a yaml, yml, json, toml, env or dotenv file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.NewDefault()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if regenToken {
			cfg.Server.AdminBearerToken = uuid.NewString()
		}

		if err := cfg.Export(outputFile); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", outputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportConfigCmd)

	exportConfigCmd.Flags().BoolVarP(&regenToken, "regen-token", "t", false, "regenerate admin bearer token")
	exportConfigCmd.Flags().StringVarP(&outputFile, "output-file", "o", loaders.DefaultConfigFilePath, "output configuration file path")
}
