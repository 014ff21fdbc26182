package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewReverseProxy forwards requests to target with prefixToStrip removed from
// the path. Credentials of the admin UI are never forwarded.
func NewReverseProxy(target, prefixToStrip string, log *logrus.Logger) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(target)
	if err != nil {
		log.Errorf("Failed to parse target URL '%s': %v", target, err)
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q: scheme and host are required", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		if prefixToStrip != "" && strings.HasPrefix(req.URL.Path, prefixToStrip) {
			req.URL.Path = ensureLeadingSlash(strings.TrimPrefix(req.URL.Path, prefixToStrip))
			if req.URL.RawPath != "" {
				req.URL.RawPath = ensureLeadingSlash(strings.TrimPrefix(req.URL.RawPath, prefixToStrip))
			}
		}

		originalDirector(req)
		req.Host = targetURL.Host
		req.Header.Del("Authorization")
		req.Header.Del("Cookie")

		log.Debugf("Proxy Director: Forwarding to %s", req.URL.String())
	}

	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		log.Errorf("Reverse proxy error to target '%s' for path '%s': %v", target, req.URL.Path, err)
		http.Error(rw, "Bad Gateway", http.StatusBadGateway)
	}

	log.Infof("Reverse proxy created for target: %s (will strip prefix: '%s')", target, prefixToStrip)
	return proxy, nil
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func ProxyHandler(p *httputil.ReverseProxy, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debugf("ProxyHandler: Forwarding request for path '%s'", c.Request.URL.Path)
		p.ServeHTTP(c.Writer, c.Request)
	}
}
