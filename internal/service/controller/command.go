package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"google.golang.org/grpc"

	api "github.com/oshokin/robot-alarm/internal/api/grpc/robot"
	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/dispatcher"
	"github.com/oshokin/robot-alarm/internal/domain/arming"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/mailbox"
	"github.com/oshokin/robot-alarm/internal/publish"
	"github.com/oshokin/robot-alarm/internal/repository/status"
	"github.com/oshokin/robot-alarm/internal/service/common"
)

// Options controls the robot-controller process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// LogLevel overrides the configured log level.
	LogLevel string
}

// ErrAlreadyRunning indicates another controller holds the lock file.
var ErrAlreadyRunning = errors.New("another robot controller is already running")

// Run starts the dispatcher and the command gRPC server and blocks until the
// context is canceled or the server stops.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "robot-controller")

	// Load configuration first to get controller settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	levelName := cfg.LogLevel
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}

	if err = logger.Configure(levelName); err != nil {
		return err
	}

	// Only one controller may drive the actuators.
	lock := flock.New(cfg.LockFile)

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", cfg.LockFile, err)
	}

	if !locked {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, cfg.LockFile)
	}

	defer func() {
		_ = lock.Unlock()
	}()

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	transport, closeTransport, err := newTransport(ctx, cfg)
	if err != nil {
		return err
	}

	defer closeTransport()

	// One lock for every publisher sharing the transport.
	var transportMu sync.Mutex

	gateway := publish.NewGateway(transport, &transportMu, cfg.Topic)
	heartbeat := publish.NewHeartbeat(gateway, cfg.HeartbeatTopic, cfg.HeartbeatInterval)

	mb := mailbox.New(cfg.MailboxSize)
	repo := status.NewFileRepository(cfg.StatusFile)

	// Arming state lives for one run: drop whatever the last process left behind.
	repo.Observe(ctx, arming.NewState(), arming.PhaseUnarmed)

	hw, err := newHardware(ctx, cfg)
	if err != nil {
		return err
	}

	worker := dispatcher.New(mb, hw.sequencer, hw.indicator, gateway, dispatcher.WithObserver(repo))

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterCommandServiceServer(grpcServer, api.NewCommandServer(mb, repo))

	logger.InfoKV(ctx, "Robot controller listening",
		"listen_address", lis.Addr().String(),
		"topic", cfg.Topic,
		"time_unit", cfg.TimeUnit.String(),
		"mailbox_size", cfg.MailboxSize,
		"status_file", cfg.StatusFile,
	)

	workerDone := make(chan struct{})

	go func() {
		defer close(workerDone)

		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorKV(ctx, "Dispatcher stopped unexpectedly", "error", err)
		}
	}()

	go heartbeat.Run(logger.WithName(ctx, "heartbeat"))

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

	waitWorker(ctx, workerDone, cfg.Timeout)
	logger.Info(ctx, "Robot controller stopped")

	return nil
}

// newTransport picks the gRPC broker transport when configured and the log
// transport otherwise. The returned func releases the transport.
func newTransport(ctx context.Context, cfg *config.Config) (publish.Transport, func(), error) {
	if cfg.BrokerAddress == "" {
		logger.Info(ctx, "No broker configured, publishes will be logged")

		return publish.LogTransport{}, func() {}, nil
	}

	client, err := common.Dial(ctx, cfg.BrokerAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}

	return client, func() { _ = client.Close() }, nil
}

// waitWorker gives the dispatcher a grace period to leave an in-flight
// sequence. Sequences cannot be interrupted, so it may still be running.
func waitWorker(ctx context.Context, workerDone <-chan struct{}, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-workerDone:
	case <-timer.C:
		logger.WarnKV(ctx, "Dispatcher still busy with a sequence, exiting anyway", "grace", grace.String())
	}
}
