package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "apiapp.v1.API"

// APIServer is the server side of the apiapp.v1.API service. Requests and
// responses are google.protobuf.Struct values whose field names follow the
// HTTP JSON bodies.
type APIServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCurrentUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListItems(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateItemForUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(APIServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(APIServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(APIServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*APIServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Login", APIServer.Login),
		unaryMethod("ListUsers", APIServer.ListUsers),
		unaryMethod("GetCurrentUser", APIServer.GetCurrentUser),
		unaryMethod("GetUser", APIServer.GetUser),
		unaryMethod("CreateUser", APIServer.CreateUser),
		unaryMethod("ListItems", APIServer.ListItems),
		unaryMethod("CreateItem", APIServer.CreateItem),
		unaryMethod("CreateItemForUser", APIServer.CreateItemForUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "apiapp/v1/api.proto",
}

// RegisterAPIServer registers srv with s.
func RegisterAPIServer(s grpc.ServiceRegistrar, srv APIServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Client calls the apiapp.v1.API service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in converted to a Struct.
func (c *Client) Call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
