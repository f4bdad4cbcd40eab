package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/service/controller"
	"github.com/oshokin/robot-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the robot controller.
	rootCmd = &cobra.Command{
		Use:   "robot-controller [listen-address]",
		Short: "Run the robot command dispatcher.",
		Long: `Starts the robot controller that consumes commands from its mailbox and drives the actuators.

Commands arrive over gRPC on the listen address from the configuration file.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Publish requests go to the configured broker or to the log when none is set.
Once the alarm is armed and triggered the controller plays it until stopped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &controller.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogLevel:      logLevel,
			}

			return controller.Run(ctx, options)
		},
	}
)

// Execute runs the robot-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
}
