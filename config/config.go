package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/storage"
)

type Config struct {
	APIBaseURL      string        `envconfig:"API_BASE_URL"     required:"true"`
	AssetBaseURL    string        `envconfig:"ASSET_BASE_URL"`
	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	HTTPPort        string        `envconfig:"HTTP_PORT"        default:"127.0.0.1:8090"`
	GrpcPort        string        `envconfig:"GRPC_PORT"        default:":50061"` // health service
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT"  default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"bolt"`
	StorePath   string `envconfig:"STORE_PATH"   default:"admin-session.db"`
	StorePrefix string `envconfig:"STORE_PREFIX" default:"storefront_admin:"`
	RedisAddr   string `envconfig:"REDIS_ADDR"   default:"localhost:6379"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: API=%s, HTTP Port=%s, GRPC Port=%s, Store=%s, LogLevel=%s",
		cfg.APIBaseURL, cfg.HTTPPort, cfg.GrpcPort, cfg.StoreDriver, cfg.LogLevel)
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("configuration error: API_BASE_URL is not set")
	}
	switch c.StoreDriver {
	case storage.DriverMemory, storage.DriverBolt, storage.DriverRedis:
	case storage.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("configuration error: DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("configuration error: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("configuration error: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// StoreOptions maps the side-store settings onto storage.Options.
func (c *Config) StoreOptions() storage.Options {
	return storage.Options{
		Driver:      c.StoreDriver,
		Path:        c.StorePath,
		Prefix:      c.StorePrefix,
		RedisAddr:   c.RedisAddr,
		DatabaseURL: c.DatabaseURL,
	}
}

// Level parses LOG_LEVEL, falling back to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
