package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/location-sb/location-status/internal/applet/status"
)

const serviceName = "locationstatus.v1.StatusService"

// Source is the component the service reports on.
type Source interface {
	Snapshot() status.Snapshot
	Activate()
}

// StatusServiceServer is the server interface for StatusService.
type StatusServiceServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Activate(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// RegisterStatusServiceServer registers srv with s.
func RegisterStatusServiceServer(s grpc.ServiceRegistrar, srv StatusServiceServer) {
	s.RegisterService(&statusServiceDesc, srv)
}

var statusServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StatusServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: unaryHandler("GetStatus", StatusServiceServer.GetStatus)},
		{MethodName: "Activate", Handler: unaryHandler("Activate", StatusServiceServer.Activate)},
		{MethodName: "Shutdown", Handler: unaryHandler("Shutdown", StatusServiceServer.Shutdown)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "locationstatus/v1/status.proto",
}

// unaryHandler adapts a method taking Empty into a grpc.MethodHandler.
func unaryHandler[Out any](method string, call func(StatusServiceServer, context.Context, *emptypb.Empty) (Out, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StatusServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StatusServiceServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type statusService struct {
	source   Source
	shutdown func()
}

func (s *statusService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return EncodeSnapshot(s.source.Snapshot())
}

func (s *statusService) Activate(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.source.Activate()
	return &emptypb.Empty{}, nil
}

func (s *statusService) Shutdown(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if s.shutdown != nil {
		// Reply before the server goes away
		go s.shutdown()
	}
	return &emptypb.Empty{}, nil
}

// Client calls StatusService on a running applet.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetStatus returns the applet's current snapshot.
func (c *Client) GetStatus(ctx context.Context) (status.Snapshot, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetStatus", &emptypb.Empty{}, out); err != nil {
		return status.Snapshot{}, err
	}
	return DecodeSnapshot(out)
}

// Activate opens the location settings as if the menu entry was clicked.
func (c *Client) Activate(ctx context.Context) error {
	return c.cc.Invoke(ctx, "/"+serviceName+"/Activate", &emptypb.Empty{}, new(emptypb.Empty))
}

// Shutdown asks the applet to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.cc.Invoke(ctx, "/"+serviceName+"/Shutdown", &emptypb.Empty{}, new(emptypb.Empty))
}
