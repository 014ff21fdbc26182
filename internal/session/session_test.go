package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
	"storefront_admin/internal/storage"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) NavigateTo(path string) { n.paths = append(n.paths, path) }

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}
func (brokenStore) Set(context.Context, string, string) error { return errors.New("disk gone") }
func (brokenStore) Remove(context.Context, string) error      { return errors.New("disk gone") }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeAuthBackend answers /auth/login for a@b.com/x and /auth/signup.
func fakeAuthBackend(t *testing.T, token string) clients.APIClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", func(c *gin.Context) {
		var req domain.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad body"})
			return
		}
		if req.Email != "a@b.com" || req.Password != "x" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Sai email hoặc mật khẩu"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"token":     token,
			"userId":    5,
			"email":     "a@b.com",
			"full_name": "A B",
			"role":      "admin",
		}})
	})
	router.POST("/auth/signup", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "registered"})
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"auth": c.GetHeader("Authorization")})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return clients.NewAPIHTTPClient(srv.URL, 2*time.Second, quietLogger())
}

func TestLogin_StoresSessionInMemoryAndSideStore(t *testing.T) {
	ctx := context.Background()
	api := fakeAuthBackend(t, "T1")
	store := storage.NewMemoryStore()
	m := NewManager(ctx, api, store, nil, quietLogger())

	assert.False(t, m.IsAuthenticated())

	resp, err := m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "T1", resp.Token)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "T1", m.Token())
	user, ok := m.User()
	require.True(t, ok)
	assert.Equal(t, domain.AuthUser{UserID: 5, Email: "a@b.com", FullName: "A B", Role: "admin"}, user)

	token, ok, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T1", token)

	rawUser, ok, err := store.Get(ctx, UserKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"userId":5,"email":"a@b.com","full_name":"A B","role":"admin"}`, rawUser)

	var who map[string]string
	require.NoError(t, api.Get(ctx, "/whoami", &who))
	assert.Equal(t, "Bearer T1", who["auth"])
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	api := fakeAuthBackend(t, "T1")
	store := storage.NewMemoryStore()
	m := NewManager(ctx, api, store, nil, quietLogger())

	_, err := m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Sai email hoặc mật khẩu", clients.DisplayMessage(err, "login failed"))

	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	_, ok, _ := store.Get(ctx, TokenKey)
	assert.False(t, ok)
}

func TestLogin_MissingTokenIsAnError(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, fakeAuthBackend(t, ""), storage.NewMemoryStore(), nil, quietLogger())

	_, err := m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.False(t, m.IsAuthenticated())
}

func TestSignup_DoesNotLogIn(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, fakeAuthBackend(t, "T1"), storage.NewMemoryStore(), nil, quietLogger())

	body, err := m.Signup(ctx, domain.SignupRequest{FullName: "C D", Email: "c@d.com", Password: "pw"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"registered"}`, string(body))
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
}

func TestLogout_ClearsEverythingAndRedirects(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	nav := &recordingNavigator{}
	m := NewManager(ctx, fakeAuthBackend(t, "T1"), store, nav, quietLogger())

	_, err := m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, LoginPath, m.Logout(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	_, ok := m.User()
	assert.False(t, ok)
	for _, key := range []string{TokenKey, UserKey} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}

	// already anonymous: still redirects, nothing else happens
	assert.Equal(t, LoginPath, m.Logout(ctx))
	assert.Equal(t, []string{LoginPath, LoginPath}, nav.paths)
}

func TestNewManager_HydratesFromSideStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, TokenKey, "saved"))
	require.NoError(t, store.Set(ctx, UserKey, `{"userId":9,"email":"z@z.com","full_name":"Z","role":"staff"}`))

	m := NewManager(ctx, fakeAuthBackend(t, "T1"), store, nil, quietLogger())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "saved", m.Token())
	user, _ := m.User()
	assert.Equal(t, int64(9), user.UserID)

	// hydration is one-time
	require.NoError(t, store.Set(ctx, TokenKey, "changed-elsewhere"))
	assert.Equal(t, "saved", m.Token())
}

func TestIsAuthenticated_RequiresBothTokenAndUser(t *testing.T) {
	ctx := context.Background()

	tokenOnly := storage.NewMemoryStore()
	require.NoError(t, tokenOnly.Set(ctx, TokenKey, "T"))
	m := NewManager(ctx, fakeAuthBackend(t, "T1"), tokenOnly, nil, quietLogger())
	assert.Equal(t, "T", m.Token())
	assert.False(t, m.IsAuthenticated())

	userOnly := storage.NewMemoryStore()
	require.NoError(t, userOnly.Set(ctx, UserKey, `{"userId":1}`))
	m = NewManager(ctx, fakeAuthBackend(t, "T1"), userOnly, nil, quietLogger())
	assert.False(t, m.IsAuthenticated())

	corrupt := storage.NewMemoryStore()
	require.NoError(t, corrupt.Set(ctx, TokenKey, "T"))
	require.NoError(t, corrupt.Set(ctx, UserKey, "{not json"))
	m = NewManager(ctx, fakeAuthBackend(t, "T1"), corrupt, nil, quietLogger())
	assert.False(t, m.IsAuthenticated())
}

func TestManager_SideStoreFailuresDoNotBreakSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, fakeAuthBackend(t, "T1"), brokenStore{}, nil, quietLogger())
	assert.False(t, m.IsAuthenticated())

	_, err := m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, m.IsAuthenticated())

	m.Logout(ctx)
	assert.False(t, m.IsAuthenticated())
}

func TestExpiresAt(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	m := NewManager(ctx, fakeAuthBackend(t, signed), storage.NewMemoryStore(), nil, quietLogger())
	_, ok := m.ExpiresAt()
	assert.False(t, ok, "anonymous session has no expiry")

	_, err = m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	got, ok := m.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	opaque := NewManager(ctx, fakeAuthBackend(t, "opaque-token"), storage.NewMemoryStore(), nil, quietLogger())
	_, err = opaque.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
	assert.True(t, opaque.IsAuthenticated())
}
