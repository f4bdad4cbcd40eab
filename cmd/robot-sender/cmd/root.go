package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/domain/command"
	"github.com/oshokin/robot-alarm/internal/service/sender"
	"github.com/oshokin/robot-alarm/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the controller address from config.
	serverAddress string

	// arming values for the arm subcommand.
	armAlarm, armPath, armLED, armDuration uint8

	// rootCmd represents the base command for sending robot commands.
	rootCmd = &cobra.Command{
		Use:   "robot-sender",
		Short: "Send commands to a robot controller.",
		Long: `Sends commands to the robot controller's mailbox.

Each command is delivered once. A full mailbox is reported as an error and
nothing is retried. The controller address is taken from listen_addr in the
configuration file unless --server is given.`,
	}

	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Ask the controller to publish its greeting.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd.Context(), command.ActionPublish, 0)
		},
	}

	ledOnCmd = &cobra.Command{
		Use:   "led-on",
		Short: "Pulse the indicator for one time-unit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd.Context(), command.ActionLEDPulse, 0)
		},
	}

	blinkCmd = &cobra.Command{
		Use:   "blink",
		Short: "Blink the indicator ten times.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd.Context(), command.ActionLEDBlink, 0)
		},
	}

	setCmd = &cobra.Command{
		Use:   "set <alarm|path|led|duration> VALUE",
		Short: "Set one arming value.",
		Long: `Sets one arming value. The alarm triggers when the duration is set
while the alarm, path and LED kinds are already set.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // Kind and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := parseSetter(args[0])
			if err != nil {
				return err
			}

			value, err := strconv.ParseUint(args[1], 10, 8)
			if err != nil {
				return fmt.Errorf("value %q: %w", args[1], err)
			}

			return send(cmd.Context(), action, byte(value))
		},
	}

	armCmd = &cobra.Command{
		Use:   "arm",
		Short: "Send LED, path, alarm and duration setters in order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sender.Run(cmd.Context(), &sender.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Arming: &sender.Arming{
					AlarmKind:     armAlarm,
					PathKind:      armPath,
					LEDKind:       armLED,
					DurationTicks: armDuration,
				},
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the controller's arming status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := sender.Status(cmd.Context(), cfgPath, serverAddress)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)

			return nil
		},
	}
)

// send delivers a single command.
func send(ctx context.Context, action command.Action, value byte) error {
	return sender.Run(ctx, &sender.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Action:        action,
		Value:         value,
	})
}

// parseSetter maps a setter name to its action.
func parseSetter(name string) (command.Action, error) {
	switch strings.ToLower(name) {
	case "alarm":
		return command.ActionSetAlarm, nil
	case "path":
		return command.ActionSetPath, nil
	case "led":
		return command.ActionSetLED, nil
	case "duration":
		return command.ActionSetDuration, nil
	default:
		return command.ActionIgnored, fmt.Errorf("unknown setter %q", name)
	}
}

// Execute runs the robot-sender CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "controller address override")

	armCmd.Flags().Uint8Var(&armAlarm, "alarm", 0, "alarm tone kind")
	armCmd.Flags().Uint8Var(&armPath, "path", 0, "path kind")
	armCmd.Flags().Uint8Var(&armLED, "led", 0, "LED pattern kind")
	armCmd.Flags().Uint8Var(&armDuration, "duration", 10, "arming delay in tenths of a time-unit") //nolint:mnd // One time-unit.

	rootCmd.AddCommand(publishCmd, ledOnCmd, blinkCmd, setCmd, armCmd, statusCmd)
}
