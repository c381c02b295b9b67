package v1

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Totarae/shortlinks/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service операции сервиса, используемые gRPC-слоем.
type Service interface {
	Shorten(ctx context.Context, origin service.Origin, rawURL string) (string, error)
	ResolveURL(ctx context.Context, code string) (string, bool, error)
}

// GRPCServer реализация ShortLinksServer поверх сервиса коротких ссылок.
type GRPCServer struct {
	UnimplementedShortLinksServer
	Service Service
	Logger  *zap.Logger
	// Origin используется для итоговой ссылки, если базовый URL не задан
	Origin service.Origin
}

// NewGRPCServer создаёт gRPC-обработчик.
func NewGRPCServer(svc Service, origin service.Origin, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Service: svc, Origin: origin, Logger: logger}
}

// Shorten создаёт короткую ссылку.
func (s *GRPCServer) Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	link, err := s.Service.Shorten(ctx, s.Origin, req.GetValue())
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.Logger.Error("failed to create short link", zap.String("url", req.GetValue()), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to create short link")
	}
	return wrapperspb.String(link), nil
}

// Resolve возвращает оригинальный URL по коду.
func (s *GRPCServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	code := req.GetValue()
	if strings.TrimSpace(code) == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	url, found, err := s.Service.ResolveURL(ctx, code)
	if err != nil {
		s.Logger.Error("resolve failed", zap.String("code", code), zap.Error(err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	if !found {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return wrapperspb.String(url), nil
}

// LoggingInterceptor пишет в лог каждый unary-вызов.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("gRPC Request", append(fields, zap.Error(err))...)
			return resp, err
		}
		logger.Info("gRPC Request", fields...)
		return resp, nil
	}
}

// NewServer создаёт grpc.Server с зарегистрированным сервисом и логированием.
func NewServer(srv ShortLinksServer, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)))
	s := grpc.NewServer(opts...)
	RegisterShortLinksServer(s, srv)
	return s
}
