package usecase

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newBackend() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func clientFor(t *testing.T, router *gin.Engine) clients.APIClient {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return clients.NewAPIHTTPClient(srv.URL, 2*time.Second, quietLogger())
}
