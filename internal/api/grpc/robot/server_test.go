package robot

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/robot-alarm/internal/domain/arming"
	"github.com/oshokin/robot-alarm/internal/mailbox"
	"github.com/oshokin/robot-alarm/internal/publish"
	"github.com/oshokin/robot-alarm/internal/repository/status"
)

var errTestStatus = errors.New("disk on fire")

// failingStatus always fails to load.
type failingStatus struct{}

func (failingStatus) Load(context.Context) (*status.Snapshot, error) {
	return nil, errTestStatus
}

// brokenMailbox fails every post with an unexpected error.
type brokenMailbox struct{}

func (brokenMailbox) Post([]byte) (uuid.UUID, error) {
	return uuid.Nil, errTestStatus
}

// TestCommandServer_Send verifies content reaches the mailbox unchanged.
func TestCommandServer_Send(t *testing.T) {
	t.Parallel()

	mb := mailbox.New(1)
	s := NewCommandServer(mb, nil)

	_, err := s.Send(context.Background(), wrapperspb.Bytes([]byte{'L', 't', 5}))
	require.NoError(t, err)

	msg, err := mb.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte{'L', 't', 5}, msg.Bytes())
}

// TestCommandServer_Send_Errors verifies error codes for invalid and rejected commands.
func TestCommandServer_Send_Errors(t *testing.T) {
	t.Parallel()

	s := NewCommandServer(mailbox.New(1), nil)

	_, err := s.Send(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = s.Send(context.Background(), wrapperspb.Bytes(nil))
	require.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = s.Send(context.Background(), wrapperspb.Bytes(make([]byte, mailbox.MaxContentSize+1)))
	require.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = s.Send(context.Background(), wrapperspb.Bytes([]byte{'L', 1}))
	require.NoError(t, err)

	_, err = s.Send(context.Background(), wrapperspb.Bytes([]byte{'L', 1}))
	require.Equal(t, codes.ResourceExhausted, grpcstatus.Code(err))

	_, err = NewCommandServer(brokenMailbox{}, nil).Send(context.Background(), wrapperspb.Bytes([]byte{1}))
	require.Equal(t, codes.Internal, grpcstatus.Code(err))
}

// TestCommandServer_GetStatus verifies the default, stored and failing status paths.
func TestCommandServer_GetStatus(t *testing.T) {
	t.Parallel()

	repo := status.NewFileRepository(filepath.Join(t.TempDir(), "status.json"))
	s := NewCommandServer(mailbox.New(1), repo)

	doc, err := s.GetStatus(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	snapshot, err := status.FromStruct(doc)
	require.NoError(t, err)
	require.Equal(t, arming.PhaseUnarmed, snapshot.Phase)
	require.Equal(t, arming.NewState(), snapshot.State)

	state, _ := arming.NewState().WithAlarmKind(1).WithPathKind(0).WithLEDKind(1).WithDuration(5)
	repo.Observe(context.Background(), state, arming.PhaseTriggered)

	doc, err = s.GetStatus(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	snapshot, err = status.FromStruct(doc)
	require.NoError(t, err)
	require.Equal(t, arming.PhaseTriggered, snapshot.Phase)
	require.Equal(t, state, snapshot.State)

	_, err = NewCommandServer(mailbox.New(1), failingStatus{}).GetStatus(context.Background(), nil)
	require.Equal(t, codes.Unavailable, grpcstatus.Code(err))
}

// TestActorFromContext verifies the sender identity is read from metadata.
func TestActorFromContext(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<unknown>", actorFromContext(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(ActorMetadataKey, "op@bench"))
	require.Equal(t, "op@bench", actorFromContext(ctx))
}

// TestPublishServer verifies decoded messages reach the handler.
func TestPublishServer(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		received []publish.Message
	)

	s := NewPublishServer(func(_ context.Context, msg publish.Message) {
		mu.Lock()
		defer mu.Unlock()

		received = append(received, msg)
	})

	doc, err := MessageToStruct(publish.Message{Topic: "anrg-pi4/robot", Payload: []byte("hi")})
	require.NoError(t, err)

	_, err = s.Publish(context.Background(), doc)
	require.NoError(t, err)

	_, err = s.Publish(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = s.Publish(context.Background(), new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	require.Equal(t, []publish.Message{{Topic: "anrg-pi4/robot", Payload: []byte("hi"), QoS: publish.QoS0}}, received)
}

// TestMessageStruct_Roundtrip verifies binary payloads and flags survive encoding.
func TestMessageStruct_Roundtrip(t *testing.T) {
	t.Parallel()

	want := publish.Message{
		Topic:    "t",
		Payload:  []byte{0, 255, 'h'},
		QoS:      publish.QoS1,
		Retained: true,
		Dup:      true,
	}

	doc, err := MessageToStruct(want)
	require.NoError(t, err)

	got, err := MessageFromStruct(doc)
	require.NoError(t, err)
	require.Equal(t, want, got)

	doc.Fields[fieldPayload] = structpb.NewStringValue("%%%")

	_, err = MessageFromStruct(doc)
	require.Error(t, err)
}
