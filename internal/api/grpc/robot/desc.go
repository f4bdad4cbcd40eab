package robot

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names. Messages are protobuf well-known types, so no
// generated code is needed on either side.
const (
	CommandServiceName = "robot.v1.CommandService"
	PublishServiceName = "robot.v1.PublishService"

	SendMethod      = "/" + CommandServiceName + "/Send"
	GetStatusMethod = "/" + CommandServiceName + "/GetStatus"
	PublishMethod   = "/" + PublishServiceName + "/Publish"

	// ActorMetadataKey carries the sender identity (user@host) in request metadata.
	ActorMetadataKey = "x-robot-actor"
)

// CommandServiceServer accepts commands for the dispatcher.
type CommandServiceServer interface {
	// Send posts raw message content into the mailbox.
	Send(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error)
	// GetStatus returns the last arming snapshot.
	GetStatus(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// PublishServiceServer receives outbound publishes.
type PublishServiceServer interface {
	Publish(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

// CommandServiceDesc describes robot.v1.CommandService.
//
//nolint:gochecknoglobals // Service descriptors are registered by pointer.
var CommandServiceDesc = grpc.ServiceDesc{
	ServiceName: CommandServiceName,
	HandlerType: (*CommandServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Send", Handler: sendHandler},
		{MethodName: "GetStatus", Handler: getStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "robot/v1/robot.proto",
}

// PublishServiceDesc describes robot.v1.PublishService.
//
//nolint:gochecknoglobals // Service descriptors are registered by pointer.
var PublishServiceDesc = grpc.ServiceDesc{
	ServiceName: PublishServiceName,
	HandlerType: (*PublishServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Publish", Handler: publishHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "robot/v1/robot.proto",
}

// RegisterCommandServiceServer registers the command service on s.
func RegisterCommandServiceServer(s grpc.ServiceRegistrar, srv CommandServiceServer) {
	s.RegisterService(&CommandServiceDesc, srv)
}

// RegisterPublishServiceServer registers the publish service on s.
func RegisterPublishServiceServer(s grpc.ServiceRegistrar, srv PublishServiceServer) {
	s.RegisterService(&PublishServiceDesc, srv)
}

func sendHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(CommandServiceServer).Send(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SendMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).Send(ctx, req.(*wrapperspb.BytesValue))
	}

	return interceptor(ctx, in, info, handler)
}

func getStatusHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(CommandServiceServer).GetStatus(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatusMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).GetStatus(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func publishHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PublishServiceServer).Publish(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PublishMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublishServiceServer).Publish(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}
