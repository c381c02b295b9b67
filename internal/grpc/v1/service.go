package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName полное имя gRPC-сервиса.
const ServiceName = "shortlinks.v1.ShortLinks"

const (
	methodShorten = "/" + ServiceName + "/Shorten"
	methodResolve = "/" + ServiceName + "/Resolve"
)

// ShortLinksServer серверная часть сервиса коротких ссылок.
// Запросы и ответы передаются как google.protobuf.StringValue.
type ShortLinksServer interface {
	Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedShortLinksServer отвечает Unimplemented на все методы.
type UnimplementedShortLinksServer struct{}

func (UnimplementedShortLinksServer) Shorten(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Shorten not implemented")
}

func (UnimplementedShortLinksServer) Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Resolve not implemented")
}

// RegisterShortLinksServer регистрирует реализацию сервиса на gRPC-сервере.
func RegisterShortLinksServer(s grpc.ServiceRegistrar, srv ShortLinksServer) {
	s.RegisterService(&ShortLinks_ServiceDesc, srv)
}

func shortenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortLinksServer).Shorten(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodShorten}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ShortLinksServer).Shorten(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortLinksServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodResolve}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ShortLinksServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ShortLinks_ServiceDesc описание сервиса для grpc.Server.
var ShortLinks_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortLinksServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Shorten", Handler: shortenHandler},
		{MethodName: "Resolve", Handler: resolveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shortlinks/v1/shortlinks.proto",
}

// Client клиент сервиса коротких ссылок.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient создаёт клиента поверх установленного соединения.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Shorten возвращает итоговую короткую ссылку для url.
func (c *Client) Shorten(ctx context.Context, url string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodShorten, wrapperspb.String(url), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Resolve возвращает оригинальный URL по коду.
func (c *Client) Resolve(ctx context.Context, code string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, methodResolve, wrapperspb.String(code), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
