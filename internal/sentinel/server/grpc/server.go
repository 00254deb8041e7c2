package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcmw "github.com/autopeer-io/sentinel/internal/pkg/middleware/grpc"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

const probeInterval = 10 * time.Second

// ServiceName is the health service reported for the ingestion pipeline.
const ServiceName = "sentinel.v1.Ingestion"

// ReadinessFunc reports whether the server can accept pings.
type ReadinessFunc func(ctx context.Context) error

// Server exposes the standard gRPC health protocol. The ingestion service
// status follows the live state store's reachability.
type Server struct {
	server  *grpc.Server
	health  *health.Server
	options *options.GrpcOptions
	ready   ReadinessFunc
}

func NewServer(opts *options.GrpcOptions, ready ReadinessFunc) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcmw.UnaryServerTimeoutInterceptor(opts.Timeout),
			grpcmw.UnaryServerLoggingInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{server: srv, health: hs, options: opts, ready: ready}
}

func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen(s.options.Network, s.options.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc addr %s: %w", s.options.Addr, err)
	}

	log.Info("Starting gRPC Server", "addr", s.options.Addr)

	go s.probe(ctx)
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.server.GracefulStop()
	}()

	return s.server.Serve(lis)
}

// probe keeps the serving status in line with readiness until ctx ends.
func (s *Server) probe(ctx context.Context) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	for {
		s.updateStatus(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) updateStatus(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.ready != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.ready(checkCtx)
		cancel()
		if err != nil {
			log.Warn("Ingestion not ready", "error", err.Error())
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
