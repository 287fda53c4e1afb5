package commands

import (
	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <output.json>",
	Short: "validate an output and list the messages its transmission consists of",
	Long:  "Validates the output description and prints the device records together with the planned message sequence. No device is contacted. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}

		raw, err := readOutputParams(cmd, args[0])
		if err != nil {
			return err
		}

		output, err := outputs.TransformOutput(raw)
		if err != nil {
			return err
		}

		messages, err := outputs.Plan(cmd.Context(), output)
		if err != nil {
			return err
		}

		return printJSON(cmd, struct {
			outputs.OutputWithData
			Messages []outputs.PlannedMessage `json:"messages"`
		}{output, messages})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
