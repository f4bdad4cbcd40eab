//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/robot-alarm/internal/api/grpc/robot"
	"github.com/oshokin/robot-alarm/internal/config"
	"github.com/oshokin/robot-alarm/internal/publish"
	"github.com/oshokin/robot-alarm/internal/repository/status"
)

// Client wraps a gRPC connection to a robot controller or publish sink.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is attached to outgoing calls when set.
	actor *Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the sender identity to every call.
func WithActor(actor Actor) Option {
	return func(c *Client) {
		c.actor = &actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the given address. The connection is lazy:
// nothing is sent until the first call.
// Note: this uses insecure transport credentials; deploy on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Send posts raw message content to the controller mailbox.
func (c *Client) Send(ctx context.Context, content []byte) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.conn.Invoke(callCtx, api.SendMethod, wrapperspb.Bytes(content), new(emptypb.Empty)); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	return nil
}

// GetStatus fetches the controller's arming snapshot.
func (c *Client) GetStatus(ctx context.Context) (*status.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	doc := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.GetStatusMethod, new(emptypb.Empty), doc); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	snapshot, err := status.FromStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	return snapshot, nil
}

// Publish sends one message to a publish sink. It makes Client a publish.Transport.
func (c *Client) Publish(ctx context.Context, msg publish.Message) error {
	doc, err := api.MessageToStruct(msg)
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err = c.conn.Invoke(callCtx, api.PublishMethod, doc, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, if
// any, is attached as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != nil {
		ctx = metadata.AppendToOutgoingContext(ctx, api.ActorMetadataKey, c.actor.String())
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
