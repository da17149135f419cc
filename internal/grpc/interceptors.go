package grpc

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/tempizhere/shortlinks/internal/grpc/proto"
	"github.com/tempizhere/shortlinks/internal/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey ключ метаданных с идентификатором запроса
const RequestIDKey = "x-request-id"

// TrustedSubnetInterceptor создаёт интерцептор для проверки доверенной подсети.
// Проверяется только метод Stats, адрес клиента берётся из peer.
func TrustedSubnetInterceptor(subnet *middleware.Subnet, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != proto.StatsFullMethod {
			return handler(ctx, req)
		}

		if subnet == nil {
			logger.Warn("Access denied: trusted subnet is not configured", zap.String("method", info.FullMethod))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		ip := peerIP(ctx)
		if !subnet.Contains(net.ParseIP(ip)) {
			logger.Warn("Access denied from untrusted IP",
				zap.String("ip", ip),
				zap.String("trusted_subnet", subnet.String()))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor создаёт интерцептор для логирования gRPC запросов.
// Идентификатор запроса берётся из метаданных или генерируется и возвращается клиенту в заголовке.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		requestID := requestIDFromContext(ctx)
		if err := grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, requestID)); err != nil {
			logger.Debug("Failed to set response header", zap.Error(err))
		}

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", info.FullMethod),
			zap.String("client_ip", peerIP(ctx)),
			zap.String("status_code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("gRPC request", append(fields, zap.Error(err))...)
		} else {
			logger.Info("gRPC request", fields...)
		}

		return resp, err
	}
}

func requestIDFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

func peerIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}
