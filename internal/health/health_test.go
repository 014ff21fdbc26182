package health

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type flagSession struct {
	on atomic.Bool
}

func (s *flagSession) IsAuthenticated() bool { return s.on.Load() }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func backend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func deadBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func newChecker(baseURL string, session SessionChecker) *Checker {
	return NewChecker(baseURL, time.Second, session, quietLogger())
}

func status(t *testing.T, c *Checker, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := c.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestCheck_ReachableBackend(t *testing.T) {
	session := &flagSession{}
	c := newChecker(backend(t), session)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, c, ""))

	report := c.Check(context.Background())
	assert.True(t, report.Backend, "a 404 still means the backend answered")
	assert.False(t, report.Session)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, c, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, c, BackendService))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, c, SessionService))

	session.on.Store(true)
	c.Check(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, c, SessionService))
	assert.True(t, c.Last().Session)
}

func TestCheck_SendsNoCredentials(t *testing.T) {
	var (
		hits atomic.Int32
		auth atomic.Value
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth.Store(r.Header.Get("Authorization"))
		assert.Equal(t, "/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	session := &flagSession{}
	session.on.Store(true)
	report := newChecker(srv.URL, session).Check(context.Background())

	assert.True(t, report.Backend)
	assert.True(t, report.Session)
	require.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "", auth.Load())
}

func TestCheck_UnreachableBackend(t *testing.T) {
	c := newChecker(deadBackend(t), &flagSession{})
	report := c.Check(context.Background())
	assert.False(t, report.Backend)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, c, BackendService))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", c.Handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Backend)
}

func TestChecker_OverGRPC(t *testing.T) {
	c := newChecker(backend(t), &flagSession{})

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, c.Server())
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Hour)
		close(done)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	assert.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: BackendService})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: BackendService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
