package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/service/monitor"
	"github.com/oshokin/robot-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the publish sink.
	rootCmd = &cobra.Command{
		Use:   "robot-monitor [listen-address]",
		Short: "Run a publish sink that logs robot messages.",
		Long: `Starts a gRPC publish sink that logs every message the robot controller publishes.

Only the port from broker_addr config is used for listening (e.g., :1883).
Listen address can be provided as argument to override config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return monitor.Run(ctx, &monitor.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			})
		},
	}
)

// Execute runs the robot-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
