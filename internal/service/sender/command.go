package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/domain/command"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/service/common"
)

// Arming holds the four values sent by the arm command.
type Arming struct {
	// AlarmKind selects the alarm tone.
	AlarmKind byte
	// PathKind selects the path.
	PathKind byte
	// LEDKind selects the LED pattern.
	LEDKind byte
	// DurationTicks is the arming delay in tenths of a time-unit.
	DurationTicks byte
}

// Options configures one robot-sender invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the controller address from config when specified.
	ServerAddress string
	// Action is the single command to send. Ignored when Arming is set.
	Action command.Action
	// Value is the setter value for single setter commands.
	Value byte
	// Arming sends LED, path, alarm and duration setters in that order.
	Arming *Arming
}

// errNothingToSend is returned when neither an action nor arming values are provided.
var errNothingToSend = errors.New("nothing to send")

// Run sends the requested commands to the controller. There are no retries:
// a full mailbox or an unreachable controller is reported to the caller.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "robot-sender")

	payloads, err := buildPayloads(opts)
	if err != nil {
		return err
	}

	client, address, err := connect(ctx, opts.ConfigPath, opts.ServerAddress)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	for _, p := range payloads {
		if err := client.Send(ctx, p); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Command sent", "server_address", address, "action", command.Decode(p).Action)
	}

	return nil
}

// Status fetches the controller's arming snapshot and renders it for printing.
func Status(ctx context.Context, configPath, serverAddress string) (string, error) {
	ctx = logger.WithName(ctx, "robot-sender")

	client, _, err := connect(ctx, configPath, serverAddress)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = client.Close()
	}()

	snapshot, err := client.GetStatus(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s (alarm=%d path=%d led=%d duration=%d) at %s",
		snapshot.Phase,
		snapshot.State.AlarmKind,
		snapshot.State.PathKind,
		snapshot.State.LEDKind,
		snapshot.State.DurationTicks,
		snapshot.Timestamp.Format(time.RFC3339),
	), nil
}

// buildPayloads encodes the commands requested by opts.
func buildPayloads(opts *Options) ([][]byte, error) {
	if opts.Arming != nil {
		steps := []struct {
			action command.Action
			value  byte
		}{
			{command.ActionSetLED, opts.Arming.LEDKind},
			{command.ActionSetPath, opts.Arming.PathKind},
			{command.ActionSetAlarm, opts.Arming.AlarmKind},
			{command.ActionSetDuration, opts.Arming.DurationTicks},
		}

		payloads := make([][]byte, 0, len(steps))

		for _, s := range steps {
			p, err := command.Encode(s.action, s.value)
			if err != nil {
				return nil, err
			}

			payloads = append(payloads, p)
		}

		return payloads, nil
	}

	if opts.Action == command.ActionIgnored {
		return nil, errNothingToSend
	}

	p, err := command.Encode(opts.Action, opts.Value)
	if err != nil {
		return nil, err
	}

	return [][]byte{p}, nil
}

// connect loads settings and dials the controller.
func connect(ctx context.Context, configPath, override string) (*common.Client, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}

	address := override
	if address == "" {
		address = dialAddress(cfg.ListenAddress)
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, "", err
	}

	client, err := common.Dial(ctx, address, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return nil, "", err
	}

	return client, address, nil
}

// dialAddress turns a listen address such as ":50051" into a dialable one.
func dialAddress(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
