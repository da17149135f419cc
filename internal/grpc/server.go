// Package grpc содержит реализацию gRPC сервера для сервиса коротких ссылок
package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/tempizhere/shortlinks/internal/grpc/proto"
	"github.com/tempizhere/shortlinks/internal/middleware"
	"github.com/tempizhere/shortlinks/internal/models"
	"github.com/tempizhere/shortlinks/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LinkStore определяет операции хранилища ссылок, нужные gRPC серверу
type LinkStore interface {
	Create(rawURL string) (models.Link, error)
	Resolve(code string) (models.Link, bool)
	Stats() models.Stats
}

// Server реализует gRPC сервер для сервиса коротких ссылок
type Server struct {
	proto.UnimplementedLinkServiceServer
	store   LinkStore
	baseURL string
	logger  *zap.Logger
}

// NewServer создаёт новый gRPC сервер.
// При пустом baseURL в ответе возвращается путь короткой ссылки без хоста.
func NewServer(store LinkStore, baseURL string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// NewGRPCServer создаёт grpc.Server с интерцепторами и зарегистрированным сервисом
func NewGRPCServer(srv *Server, subnet *middleware.Subnet, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		TrustedSubnetInterceptor(subnet, logger),
	))
	s := grpc.NewServer(opts...)
	proto.RegisterLinkServiceServer(s, srv)
	return s
}

// Shorten создаёт короткую ссылку
func (s *Server) Shorten(_ context.Context, req *proto.ShortenRequest) (*proto.ShortenResponse, error) {
	link, err := s.store.Create(req.URL)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.ShortenResponse{
		Code:        link.Code,
		ShortURL:    s.baseURL + "/" + link.Code,
		OriginalURL: link.OriginalURL,
	}, nil
}

// Resolve возвращает исходный URL и учитывает переход
func (s *Server) Resolve(_ context.Context, req *proto.ResolveRequest) (*proto.ResolveResponse, error) {
	if req.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}
	link, ok := s.store.Resolve(req.Code)
	if !ok {
		return &proto.ResolveResponse{Found: false}, nil
	}
	return &proto.ResolveResponse{
		OriginalURL: link.OriginalURL,
		Clicks:      link.ClickCount,
		Found:       true,
	}, nil
}

// Stats возвращает статистику хранилища
func (s *Server) Stats(_ context.Context, _ *proto.StatsRequest) (*proto.StatsResponse, error) {
	stats := s.store.Stats()
	return &proto.StatsResponse{
		Links:  int64(stats.Links),
		Clicks: stats.Clicks,
	}, nil
}

// mapError преобразует ошибки бизнес-логики в gRPC статусы
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrProhibitedContent):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error("Unexpected error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
