package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/config"
	"github.com/4chain-ag/go-hw-outputs/pkg/metrics"
	"github.com/4chain-ag/go-hw-outputs/pkg/server"
	"github.com/gookit/slog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	noDevice    bool
	printConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the output HTTP API",
	Long:  "Serves output transformation and transmission over HTTP. Transmissions go to the device bridge from the config file, or are acknowledged locally with --no-device.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if printConfig != "" {
			if err := config.PrettyPrintAs(cfg, printConfig); err != nil {
				return err
			}
		}

		collector := metrics.NewCollector()
		opts := []server.ServerOption{
			server.WithConfig(cfg.Server),
			server.WithMetrics(collector),
		}

		if noDevice {
			slog.Warn("no device bridge configured, transmissions are acknowledged locally")
		} else {
			session, err := dialDevice(cfg.Device)
			if err != nil {
				return err
			}
			defer session.Close()
			opts = append(opts, server.WithSender(session))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(opts...)
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			slog.Infof("HTTP server listening on %s", srv.SocketAddr())
			return srv.ListenAndServe(ctx)
		})

		g.Go(func() error {
			<-ctx.Done()
			slog.Info("shutting down HTTP server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Info("HTTP server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&noDevice, "no-device", false, "acknowledge transmissions locally instead of dialing the device bridge")
	serveCmd.Flags().StringVar(&printConfig, "print-config", "", "log the loaded configuration as yaml or json")
}
