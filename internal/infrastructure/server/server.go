package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jyokotori/neko-words/internal/adapter/rest"
	"github.com/jyokotori/neko-words/internal/infrastructure/config"
)

// Server runs the REST API and the gRPC health endpoint.
type Server struct {
	config     *config.Config
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	logger     *logrus.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logrus.Logger, handler *rest.Handler) *Server {
	opts := []logging.Option{logging.WithLogOnEvents(logging.FinishCall)}
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logging.UnaryServerInterceptor(InterceptorLogger(logger), opts...)),
		grpc.ChainStreamInterceptor(logging.StreamServerInterceptor(InterceptorLogger(logger), opts...)),
	)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	return &Server{
		config:     cfg,
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr(),
			Handler: NewHTTPHandler(handler, cfg.Server.APIPrefix, logger),
		},
		health: healthSrv,
		logger: logger,
	}
}

// NewHTTPHandler wraps the REST routes with CORS and request logging.
func NewHTTPHandler(handler *rest.Handler, prefix string, logger logrus.FieldLogger) http.Handler {
	return cors.AllowAll().Handler(RequestLogger(logger)(handler.Routes(prefix)))
}

// StartGRPC starts the gRPC server
func (s *Server) StartGRPC() error {
	addr := s.config.GRPCAddr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.logger.Infof("gRPC server starting on %s", addr)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}

	return nil
}

// StartHTTP starts the REST server
func (s *Server) StartHTTP() error {
	s.logger.Infof("HTTP server starting on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.health.Shutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Failed to shutdown HTTP server: %v", err)
	}

	s.grpcServer.GracefulStop()

	s.logger.Info("Server shutdown complete")
	return nil
}
