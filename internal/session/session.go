// Package session owns the admin's authentication state: the bearer token
// and the logged-in user, mirrored to a durable side-store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
)

const (
	TokenKey  = "token"
	UserKey   = "user"
	LoginPath = "/auth/login"
)

var ErrMissingToken = errors.New("login response did not contain a token")

// Navigator moves the UI to another view. Logout uses it to send the admin
// back to the login page.
type Navigator interface {
	NavigateTo(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }

type Manager struct {
	api   clients.APIClient
	store domain.KeyValueStore
	nav   Navigator
	log   *logrus.Logger

	mu    sync.RWMutex
	token string
	user  *domain.AuthUser
}

// NewManager seeds the in-memory session from store once and registers the
// manager as the token source of api. Later changes to store made by
// someone else are not observed.
func NewManager(ctx context.Context, api clients.APIClient, store domain.KeyValueStore, nav Navigator, logger *logrus.Logger) *Manager {
	m := &Manager{
		api:   api,
		store: store,
		nav:   nav,
		log:   logger,
	}
	m.hydrate(ctx)
	api.SetTokenSource(m)
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		token, ok, err := m.store.Get(ctx, TokenKey)
		if err != nil {
			m.log.Warnf("Session: Failed to read token from side-store: %v", err)
		} else if ok {
			m.token = token
		}
	}

	if m.user == nil {
		raw, ok, err := m.store.Get(ctx, UserKey)
		switch {
		case err != nil:
			m.log.Warnf("Session: Failed to read user from side-store: %v", err)
		case ok && raw != "":
			var u domain.AuthUser
			if err := json.Unmarshal([]byte(raw), &u); err != nil {
				m.log.Warnf("Session: Ignoring unreadable user entry in side-store: %v", err)
			} else {
				m.user = &u
			}
		}
	}

	if m.token != "" && m.user != nil {
		m.log.Infof("Session: Restored session for %s", m.user.Email)
	}
}

// Token implements clients.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) User() (domain.AuthUser, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domain.AuthUser{}, false
	}
	return *m.user, true
}

// IsAuthenticated is true iff both a token and a user are held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.user != nil
}

// ExpiresAt reports the exp claim of the current token when it is a JWT.
// The claim is read without verification and is for display only.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	return tokenExpiry(m.Token())
}

func (m *Manager) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	m.log.Infof("Session: Attempting login for %s", req.Email)

	var resp domain.LoginResponse
	if err := m.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		m.log.Warnf("Session: Login failed for %s: %v", req.Email, err)
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		m.log.Errorf("Session: Login response for %s has no token", req.Email)
		return nil, ErrMissingToken
	}

	user := resp.User()
	m.mu.Lock()
	m.token = resp.Token
	m.user = &user
	m.mu.Unlock()

	m.persist(ctx, resp.Token, user)

	m.log.Infof("Session: Logged in as %s (role %s)", user.Email, user.Role)
	return &resp, nil
}

func (m *Manager) persist(ctx context.Context, token string, user domain.AuthUser) {
	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		m.log.Errorf("Session: Failed to persist token: %v", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		m.log.Errorf("Session: Failed to encode user for side-store: %v", err)
		return
	}
	if err := m.store.Set(ctx, UserKey, string(raw)); err != nil {
		m.log.Errorf("Session: Failed to persist user: %v", err)
	}
}

// Signup registers an account. It never logs the new account in.
func (m *Manager) Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error) {
	m.log.Infof("Session: Processing signup for %s", req.Email)

	var resp json.RawMessage
	if err := m.api.Post(ctx, "/auth/signup", req, &resp); err != nil {
		m.log.Warnf("Session: Signup failed for %s: %v", req.Email, err)
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return resp, nil
}

// Logout clears the session in memory and in the side-store, then
// navigates to the login view. It returns the path navigated to.
func (m *Manager) Logout(ctx context.Context) string {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	for _, key := range []string{TokenKey, UserKey} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.log.Errorf("Session: Failed to remove %s from side-store: %v", key, err)
		}
	}

	m.log.Info("Session: Logged out")
	if m.nav != nil {
		m.nav.NavigateTo(LoginPath)
	}
	return LoginPath
}
