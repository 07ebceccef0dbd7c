package grpc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"eventrental-backend/internal/api/grpc/interceptor"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/security"
)

// ServiceName is the health service name operators probe for the rental API.
const ServiceName = "eventrental.v1.RentalAPI"

// NewServer builds the gRPC server that exposes health checking and
// reflection. A nil token manager leaves every method unauthenticated.
func NewServer(hs *health.Server, tm security.TokenManager) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		interceptor.Logging(),
		interceptor.Recovery(),
	}
	if tm != nil {
		chain = append(chain, interceptor.NewAuthInterceptor(tm).Unary())
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the health server's status in step with the store.
type HealthReporter struct {
	hs       *health.Server
	store    Pinger
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	serving bool
	known   bool
}

func NewHealthReporter(hs *health.Server, store Pinger, interval time.Duration) *HealthReporter {
	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &HealthReporter{hs: hs, store: store, interval: interval, timeout: timeout}
}

// Check pings the store once and publishes the result.
func (h *HealthReporter) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	err := h.store.Ping(pctx)
	serving := err == nil

	h.mu.Lock()
	changed := !h.known || h.serving != serving
	h.serving, h.known = serving, true
	h.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.hs.SetServingStatus("", status)
	h.hs.SetServingStatus(ServiceName, status)

	if changed {
		if serving {
			logger.InfoContext(ctx, "Store reachable, reporting SERVING")
		} else {
			logger.WarnContext(ctx, "Store unreachable, reporting NOT_SERVING", "error", err)
		}
	}
	return serving
}

// Run checks immediately and then on every interval until ctx is done.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.hs.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
