package health

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checker mirrors database reachability into the gRPC health service.
type Checker struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   logger.ZapLogger
}

func NewChecker(server *health.Server, pinger Pinger, interval time.Duration, log logger.ZapLogger) *Checker {
	return &Checker{
		server:   server,
		pinger:   pinger,
		interval: interval,
		logger:   log,
	}
}

func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.PingContext(ctx); err != nil {
		c.logger.Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", status)
	return status
}

// Run checks once immediately and then on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.Check(ctx.Request.Context()) != healthpb.HealthCheckResponse_SERVING {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
