package robot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/robot-alarm/internal/domain/arming"
	"github.com/oshokin/robot-alarm/internal/logger"
	"github.com/oshokin/robot-alarm/internal/mailbox"
	"github.com/oshokin/robot-alarm/internal/publish"
	"github.com/oshokin/robot-alarm/internal/repository/status"
)

// Mailbox is the producer side of the dispatcher queue.
type Mailbox interface {
	Post(content []byte) (uuid.UUID, error)
}

// StatusSource loads the last arming snapshot.
type StatusSource interface {
	Load(ctx context.Context) (*status.Snapshot, error)
}

// CommandServer implements robot.v1.CommandService.
type CommandServer struct {
	// mailbox receives posted commands.
	mailbox Mailbox
	// status provides arming snapshots; may be nil.
	status StatusSource
}

// NewCommandServer wires a mailbox and a status source into a gRPC handler.
func NewCommandServer(mb Mailbox, source StatusSource) *CommandServer {
	return &CommandServer{
		mailbox: mb,
		status:  source,
	}
}

// Send posts the raw content into the mailbox.
func (s *CommandServer) Send(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	if in == nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "request is required")
	}

	id, err := s.mailbox.Post(in.GetValue())

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Command queued",
			"message_id", id.String(),
			"size", len(in.GetValue()),
			"actor", actorFromContext(ctx),
		)

		return new(emptypb.Empty), nil
	case errors.Is(err, mailbox.ErrFull):
		logger.WarnKV(ctx, "Mailbox full, command rejected")

		return nil, grpcstatus.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, mailbox.ErrEmptyContent), errors.Is(err, mailbox.ErrTooLarge):
		return nil, grpcstatus.Error(codes.InvalidArgument, err.Error())
	default:
		return nil, grpcstatus.Error(codes.Internal, "unable to queue command")
	}
}

// GetStatus returns the last arming snapshot, or an unarmed one if nothing
// has been latched yet.
func (s *CommandServer) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot := &status.Snapshot{
		Timestamp: time.Now().UTC(),
		Phase:     arming.PhaseUnarmed,
		State:     arming.NewState(),
	}

	if s.status != nil {
		loaded, err := s.status.Load(ctx)

		switch {
		case err == nil:
			snapshot = loaded
		case errors.Is(err, status.ErrNotFound):
			// Keep the unarmed snapshot.
		default:
			logger.ErrorKV(ctx, "Failed to load arming status", "error", err)

			return nil, grpcstatus.Error(codes.Unavailable, "status is unavailable")
		}
	}

	doc, err := status.ToStruct(snapshot)
	if err != nil {
		return nil, grpcstatus.Error(codes.Internal, "unable to encode status")
	}

	return doc, nil
}

// actorFromContext returns the sender identity from request metadata.
func actorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "<unknown>"
	}

	values := md.Get(ActorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return "<unknown>"
	}

	return values[0]
}

// PublishHandler consumes a decoded publish.
type PublishHandler func(ctx context.Context, msg publish.Message)

// PublishServer implements robot.v1.PublishService.
type PublishServer struct {
	// handle receives every accepted publish.
	handle PublishHandler
}

// NewPublishServer creates a publish sink calling handle for each message.
func NewPublishServer(handle PublishHandler) *PublishServer {
	return &PublishServer{
		handle: handle,
	}
}

// Publish decodes and hands over one message.
func (s *PublishServer) Publish(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	if in == nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := MessageFromStruct(in)
	if err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, err.Error())
	}

	if s.handle != nil {
		s.handle(ctx, msg)
	}

	return new(emptypb.Empty), nil
}
