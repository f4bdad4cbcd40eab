package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"google.golang.org/grpc"

	api "github.com/oshokin/robot-alarm/internal/api/grpc/robot"
	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/publish"
)

// Options controls the robot-monitor process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// OnPublish, if set, receives every publish after it has been logged.
	OnPublish func(msg publish.Message)
}

// ErrNoBrokerAddress indicates missing broker configuration.
var ErrNoBrokerAddress = errors.New("no broker address configured")

// Run starts the publish sink and blocks until the context is canceled or
// the server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "robot-monitor")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return err
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.BrokerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	var received atomic.Int64

	grpcServer := grpc.NewServer()
	api.RegisterPublishServiceServer(grpcServer, api.NewPublishServer(func(ctx context.Context, msg publish.Message) {
		n := received.Add(1)

		logger.InfoKV(ctx, "Message received",
			"n", n,
			"topic", msg.Topic,
			"payload", string(msg.Payload),
			"qos", int(msg.QoS),
			"retained", msg.Retained,
			"dup", msg.Dup,
		)

		if opts.OnPublish != nil {
			opts.OnPublish(msg)
		}
	}))

	logger.InfoKV(ctx, "Robot monitor listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.InfoKV(ctx, "Robot monitor stopped", "received", received.Load())

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr
// so the monitor binds on all interfaces (e.g., "broker.local:1883" -> ":1883").
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoBrokerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid broker address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
