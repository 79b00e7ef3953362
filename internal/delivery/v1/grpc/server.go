package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const checkTimeout = 2 * time.Second

// DependencyCheck reports whether a backing service answers.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// GRPCServer serves the standard health protocol so orchestrators can probe
// the POS backend and each of its dependencies.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	cfg    *cfg.GRPCConfig
	logger logger.Logger
}

func NewGRPCServer(cfg *cfg.GRPCConfig, logger logger.Logger) *GRPCServer {
	server := grpc.NewServer(grpc.UnaryInterceptor(unaryErrorInterceptor(logger)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	// not ready until the first dependency round succeeds
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &GRPCServer{
		server: server,
		health: hs,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *GRPCServer) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	lis, err := net.Listen(s.cfg.NetworkMode, addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// WatchDependencies runs the checks every interval until ctx ends. Each check
// is published under its own service name, the empty name is the conjunction.
func (s *GRPCServer) WatchDependencies(ctx context.Context, interval time.Duration, checks ...DependencyCheck) {
	s.checkDependencies(ctx, checks)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkDependencies(ctx, checks)
		}
	}
}

func (s *GRPCServer) checkDependencies(ctx context.Context, checks []DependencyCheck) bool {
	ready := true
	for _, c := range checks {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Ping(pingCtx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			ready = false
			st = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.Warnf("health check %s failed: %v", c.Name, err)
		}
		s.health.SetServingStatus(c.Name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !ready {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return ready
}

func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("gRPC server stopped gracefully")
		return nil
	case <-ctx.Done():
		s.server.Stop()
		s.logger.Warnf("gRPC server forced to stop after timeout")
		return ctx.Err()
	}
}
