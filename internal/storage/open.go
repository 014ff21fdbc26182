package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/pkg/db"
)

const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	Path        string
	Prefix      string
	RedisAddr   string
	DatabaseURL string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the side-store selected by opts.Driver. The returned closer
// releases the underlying connection or file.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (domain.KeyValueStore, io.Closer, error) {
	switch opts.Driver {
	case DriverMemory:
		logger.Warn("Storage: Using in-memory side-store, the session will not survive a restart")
		return NewMemoryStore(), nopCloser{}, nil
	case DriverBolt, "":
		s, err := NewBoltStore(opts.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		logger.Infof("Storage: Connected to redis at %s", opts.RedisAddr)
		s := NewRedisStore(client, opts.Prefix)
		return s, s, nil
	case DriverPostgres:
		database, err := db.Connect(opts.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewPostgresStore(ctx, database, opts.Prefix, logger)
		if err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		logger.Info("Storage: Database connection established")
		return s, database, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
