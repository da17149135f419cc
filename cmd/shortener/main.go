// Command shortener запускает сервис коротких ссылок: HTTP API, опционально gRPC,
// отложенное сохранение и периодическое удаление устаревших ссылок.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tempizhere/shortlinks/internal/app"
	"github.com/tempizhere/shortlinks/internal/config"
	grpcserver "github.com/tempizhere/shortlinks/internal/grpc"
	"github.com/tempizhere/shortlinks/internal/log"
	"github.com/tempizhere/shortlinks/internal/middleware"
	"github.com/tempizhere/shortlinks/internal/repository"
	"github.com/tempizhere/shortlinks/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, clockwork.NewRealClock(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}
	if err := srv.run(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// server связывает хранилище, транспорты и фоновые задачи
type server struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *storage
	saver   *repository.DebouncedSaver
	store   *service.Service
	sweeper *service.Sweeper

	httpServer   *http.Server
	httpListener net.Listener
	grpcServer   *grpc.Server
	grpcListener net.Listener
}

// newServer открывает хранилище, загружает ссылки и занимает адреса для HTTP и gRPC
func newServer(ctx context.Context, cfg *config.Config, clock clockwork.Clock, logger *zap.Logger) (*server, error) {
	subnet, err := middleware.ParseSubnet(cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	initial, err := st.persister.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load links, starting with empty store",
			zap.String("storage", st.kind), zap.Error(err))
		initial = nil
	}
	logger.Info("Links loaded", zap.String("storage", st.kind), zap.Int("count", len(initial)))

	saver := repository.NewDebouncedSaver(st.persister, clock, cfg.SaveDebounce, logger)
	store := service.NewService(initial, saver,
		service.WithClock(clock),
		service.WithLogger(logger),
		service.WithReservedCodes(app.ReservedCodes...))

	s := &server{
		cfg:     cfg,
		logger:  logger,
		storage: st,
		saver:   saver,
		store:   store,
		sweeper: service.NewSweeper(store, clock, cfg.SweepInterval, cfg.LinkTTL, logger),
	}

	a := app.NewApp(store, st.pinger, cfg.BaseURL, logger)
	s.httpServer = &http.Server{
		Handler:           app.NewRouter(a, subnet, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.httpListener, err = net.Listen("tcp", cfg.RunAddr)
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("listen http %s: %w", cfg.RunAddr, err)
	}

	if cfg.GRPCAddr != "" {
		s.grpcServer = grpcserver.NewGRPCServer(grpcserver.NewServer(store, cfg.BaseURL, logger), subnet, logger)
		s.grpcListener, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			_ = s.httpListener.Close()
			_ = st.close()
			return nil, fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
		}
	}

	return s, nil
}

// run обслуживает запросы до отмены контекста, затем останавливает серверы,
// сбрасывает отложенные изменения и закрывает хранилище
func (s *server) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		s.sweeper.Run(ctx)
	}()

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("address", s.httpListener.Addr().String()))
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if s.grpcServer != nil {
		go func() {
			s.logger.Info("Starting gRPC server", zap.String("address", s.grpcListener.Addr().String()))
			if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down")
	case runErr = <-errCh:
		s.logger.Error("Server failed, shutting down", zap.Error(runErr))
	}

	return errors.Join(runErr, s.shutdown(cancel, sweeperDone))
}

func (s *server) shutdown(stopSweeper context.CancelFunc, sweeperDone <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}

	stopSweeper()
	<-sweeperDone

	if err := s.saver.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush pending links: %w", err))
	}
	if err := s.storage.close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	s.logger.Info("Server stopped")
	return errors.Join(errs...)
}

// httpAddr возвращает фактический адрес HTTP сервера
func (s *server) httpAddr() string {
	return s.httpListener.Addr().String()
}

// grpcAddr возвращает фактический адрес gRPC сервера или пустую строку
func (s *server) grpcAddr() string {
	if s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}
