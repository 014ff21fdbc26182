package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/internal/middleware"
	"storefront_admin/internal/session"
)

// SessionService is the part of *session.Manager the handlers use.
type SessionService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error)
	Logout(ctx context.Context) string
	User() (domain.AuthUser, bool)
	IsAuthenticated() bool
	ExpiresAt() (time.Time, bool)
}

type SessionHandler struct {
	session SessionService
	log     *logrus.Logger
}

func NewSessionHandler(s SessionService, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		session: s,
		log:     logger,
	}
}

// RegisterRoutes puts login and signup on public and the routes that act on
// the open session on protected, which must sit behind RequireSession.
func (h *SessionHandler) RegisterRoutes(public, protected gin.IRouter) {
	open := public.Group("/auth")
	{
		open.POST("/login", h.Login)
		open.POST("/signup", h.Signup)
	}
	guarded := protected.Group("/auth")
	{
		guarded.POST("/logout", h.Logout)
		guarded.GET("/session", h.Current)
	}
}

type sessionView struct {
	Authenticated bool             `json:"authenticated"`
	Token         string           `json:"token,omitempty"`
	User          *domain.AuthUser `json:"user,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
}

func (h *SessionHandler) view() sessionView {
	v := sessionView{Authenticated: h.session.IsAuthenticated()}
	if user, ok := h.session.User(); ok {
		v.User = &user
	}
	if exp, ok := h.session.ExpiresAt(); ok {
		v.ExpiresAt = &exp
	}
	return v
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		ErrorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.session.Login(c.Request.Context(), req)
	if err != nil {
		h.log.Warnf("Login failed for %s: %v", req.Email, err)
		if errors.Is(err, session.ErrMissingToken) {
			ErrorResponse(c, http.StatusBadGateway, "Login failed: backend returned no token")
			return
		}
		useCaseError(c, err, "Login failed")
		return
	}

	h.log.Infof("Admin %s logged in", req.Email)
	h.setSessionCookie(c, resp.Token)
	view := h.view()
	view.Token = resp.Token
	SuccessResponse(c, http.StatusOK, "Logged in successfully", view)
}

func (h *SessionHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for signup: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	body, err := h.session.Signup(c.Request.Context(), req)
	if err != nil {
		h.log.Warnf("Signup failed for %s: %v", req.Email, err)
		useCaseError(c, err, "Signup failed")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Signed up successfully", body)
}

// setSessionCookie hands the token to browser callers. An empty token
// expires the cookie.
func (h *SessionHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := 0
	if token == "" {
		maxAge = -1
	} else if exp, ok := h.session.ExpiresAt(); ok {
		maxAge = max(int(time.Until(exp).Seconds()), 1)
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (h *SessionHandler) Logout(c *gin.Context) {
	redirect := h.session.Logout(c.Request.Context())
	h.setSessionCookie(c, "")
	c.JSON(http.StatusOK, gin.H{
		"Status":   "Success",
		"Message":  "Logged out",
		"redirect": redirect,
	})
}

func (h *SessionHandler) Current(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Session retrieved", h.view())
}
