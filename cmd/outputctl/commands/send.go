package commands

import (
	"context"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/gookit/slog"
	"github.com/spf13/cobra"
)

var sendTimeout time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <output.json>",
	Short: "transmit an output to the configured device",
	Long:  "Validates the output description and transmits it to the device bridge from the config file. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
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

		session, err := dialDevice(cfg.Device)
		if err != nil {
			return err
		}
		defer session.Close()

		ctx := cmd.Context()
		if sendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, sendTimeout)
			defer cancel()
		}

		var sent int
		counting := outputs.SenderFunc(func(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
			if err := session.Send(ctx, messageType, ackType, payload); err != nil {
				return err
			}
			sent++
			return nil
		})

		if err := outputs.SendOutput(ctx, counting, output); err != nil {
			slog.Errorf("output transmission failed after %d messages: %v", sent, err)
			return err
		}

		return printJSON(cmd, map[string]any{"messagesSent": sent})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 2*time.Minute, "bound for the whole transmission, 0 disables it")
}
