package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_admin/internal/domain"
	"storefront_admin/pkg/db"
)

const testRedisAddr = "localhost:6379"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// exerciseStore runs the get/set/remove contract against s.
func exerciseStore(t *testing.T, s domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must not hold a token")

	require.NoError(t, s.Set(ctx, "token", "T1"))
	require.NoError(t, s.Set(ctx, "user", `{"userId":5}`))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", v)

	require.NoError(t, s.Set(ctx, "token", "T2"))
	v, _, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T2", v)

	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing a missing key is not an error
	require.NoError(t, s.Remove(ctx, "token"))

	v, ok, err = s.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"userId":5}`, v)
	require.NoError(t, s.Remove(ctx, "user"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := NewBoltStore(path, quietLogger())
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	s, err := NewBoltStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "token", "persisted"))
	require.NoError(t, s.Close())

	reopened, err := NewBoltStore(path, quietLogger())
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestRedisStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	client.Del(context.Background(), "storefront_admin_test:token", "storefront_admin_test:user")
	s := NewRedisStore(client, "storefront_admin_test:")
	defer s.Close()

	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	database, err := db.Connect(url)
	require.NoError(t, err)
	defer database.Close()

	s, err := NewPostgresStore(context.Background(), database, "test:", quietLogger())
	require.NoError(t, err)
	_, err = database.Exec(`DELETE FROM admin_client_state WHERE state_key LIKE 'test:%'`)
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closer, err := Open(ctx, Options{Driver: DriverMemory}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, closer.Close())

	s, closer, err = Open(ctx, Options{Driver: DriverBolt, Path: filepath.Join(t.TempDir(), "s.db")}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, s)
	assert.NoError(t, closer.Close())

	_, _, err = Open(ctx, Options{Driver: "sqlite"}, quietLogger())
	assert.Error(t, err)

	_, _, err = Open(ctx, Options{Driver: DriverPostgres}, quietLogger())
	assert.Error(t, err)
}
