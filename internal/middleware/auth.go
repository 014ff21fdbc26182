package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionCookie carries the admin token for browser callers that cannot set
// an Authorization header themselves.
const SessionCookie = "storefront_admin_session"

// SessionChecker exposes the token of the open admin session, empty while
// nobody is logged in.
type SessionChecker interface {
	Token() string
}

// callerToken reads the bearer token the caller presented, either as an
// Authorization header or as the session cookie.
func callerToken(c *gin.Context, log *logrus.Logger) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Middleware: Invalid Authorization header format")
			return ""
		}
		return parts[1]
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireSession lets a request through only when an admin session is open
// and the caller presents that session's token. The 401 body carries the
// login path the UI should navigate to.
func RequireSession(session SessionChecker, loginPath string, log *logrus.Logger) gin.HandlerFunc {
	unauthorized := func(c *gin.Context, message string) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"Status":   "Fail",
			"Message":  message,
			"redirect": loginPath,
		})
	}

	return func(c *gin.Context) {
		want := session.Token()
		if want == "" {
			log.Warnf("Middleware: Rejected %s %s, no authenticated session", c.Request.Method, c.Request.URL.Path)
			unauthorized(c, "Authentication required")
			return
		}

		got := callerToken(c, log)
		if got == "" {
			log.Warnf("Middleware: Rejected %s %s, no credentials", c.Request.Method, c.Request.URL.Path)
			unauthorized(c, "Authorization header required")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			log.Warnf("Middleware: Rejected %s %s, token does not match the session", c.Request.Method, c.Request.URL.Path)
			unauthorized(c, "Invalid token")
			return
		}
		c.Next()
	}
}
