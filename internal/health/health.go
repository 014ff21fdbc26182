// Package health reports whether the admin backend is reachable and whether
// an admin session is open, over gRPC health checking and plain HTTP.
package health

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"storefront_admin/internal/clients"
)

const (
	BackendService = "storefront.admin.Backend"
	SessionService = "storefront.admin.Session"
)

type SessionChecker interface {
	IsAuthenticated() bool
}

type Report struct {
	Backend   bool      `json:"backend"`
	Session   bool      `json:"session"`
	CheckedAt time.Time `json:"checkedAt"`
}

type Checker struct {
	api     clients.APIClient
	session SessionChecker
	server  *health.Server
	log     *logrus.Logger

	mu   sync.RWMutex
	last Report
}

// NewChecker probes baseURL with a client of its own. That client never has a
// token source, so the admin bearer token does not leave with health checks.
func NewChecker(baseURL string, timeout time.Duration, session SessionChecker, logger *logrus.Logger) *Checker {
	c := &Checker{
		api:     clients.NewAPIHTTPClient(baseURL, timeout, logger),
		session: session,
		server:  health.NewServer(),
		log:     logger,
	}
	for _, svc := range []string{"", BackendService, SessionService} {
		c.server.SetServingStatus(svc, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return c
}

// Server is the gRPC health service to register on a grpc.Server.
func (c *Checker) Server() *health.Server {
	return c.server
}

// Check probes the backend root. Any HTTP answer, error statuses included,
// counts as reachable.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Backend:   true,
		Session:   c.session.IsAuthenticated(),
		CheckedAt: time.Now(),
	}

	var reqErr *clients.RequestError
	if err := c.api.Get(ctx, "/", nil); errors.As(err, &reqErr) && reqErr.Kind == clients.KindTransport {
		c.log.Warnf("Health: Backend %s unreachable: %v", c.api.BaseURL(), err)
		report.Backend = false
	}

	c.server.SetServingStatus("", servingStatus(report.Backend))
	c.server.SetServingStatus(BackendService, servingStatus(report.Backend))
	c.server.SetServingStatus(SessionService, servingStatus(report.Session))

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()
	return report
}

func (c *Checker) Last() Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Run checks once immediately and then every interval until ctx is done.
// On return every service reports NOT_SERVING.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer c.server.Shutdown()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("Health: Checker stopped")
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Handler serves GET /health.
func (c *Checker) Handler(ctx *gin.Context) {
	report := c.Check(ctx.Request.Context())
	status := http.StatusOK
	if !report.Backend {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, report)
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
