// internal/core/api/desc.go
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

/*
 * Service descriptor.
 *
 * The service uses only well-known message types, so the descriptor and
 * client are written out here instead of generated from a .proto file:
 *
 *   service LogicService {
 *     rpc Render(google.protobuf.StringValue) returns (google.protobuf.StringValue);
 *     rpc Tree(google.protobuf.StringValue) returns (google.protobuf.Value);
 *     rpc Translate(google.protobuf.StringValue) returns (google.protobuf.StringValue);
 *   }
 */

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "craftbook.v1.LogicService"

// Full method names.
const (
	MethodRender    = "/" + ServiceName + "/Render"
	MethodTree      = "/" + ServiceName + "/Tree"
	MethodTranslate = "/" + ServiceName + "/Translate"
)

// LogicServer is the server API for LogicService.
type LogicServer interface {
	Render(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Tree(context.Context, *wrapperspb.StringValue) (*structpb.Value, error)
	Translate(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// LogicServiceDesc describes LogicService for grpc.Server.RegisterService.
var LogicServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LogicServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Render", Handler: unaryHandler(MethodRender, LogicServer.Render)},
		{MethodName: "Tree", Handler: unaryHandler(MethodTree, LogicServer.Tree)},
		{MethodName: "Translate", Handler: unaryHandler(MethodTranslate, LogicServer.Translate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "craftbook/v1/logic.proto",
}

// RegisterLogicServer registers srv on s.
func RegisterLogicServer(s grpc.ServiceRegistrar, srv LogicServer) {
	s.RegisterService(&LogicServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(LogicServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LogicServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LogicServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LogicClient calls LogicService over a client connection.
type LogicClient struct {
	cc grpc.ClientConnInterface
}

// NewLogicClient returns a client bound to cc.
func NewLogicClient(cc grpc.ClientConnInterface) *LogicClient {
	return &LogicClient{cc: cc}
}

// Render renders a textual expression.
func (c *LogicClient) Render(ctx context.Context, expr string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MethodRender, wrapperspb.String(expr), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Tree returns the canonical tree of a textual expression.
func (c *LogicClient) Tree(ctx context.Context, expr string, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, MethodTree, wrapperspb.String(expr), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Translate renders a numeric-key expression with item names.
func (c *LogicClient) Translate(ctx context.Context, expr string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MethodTranslate, wrapperspb.String(expr), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
