package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"storefront_admin/internal/domain"
)

var sessionBucket = []byte("session")

// BoltStore keeps side-store entries in a single bbolt file, which survives
// process restarts the way browser local storage survives a reload.
type BoltStore struct {
	db  *bolt.DB
	log *logrus.Logger
}

var _ domain.KeyValueStore = (*BoltStore)(nil)

func NewBoltStore(path string, logger *logrus.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}
	logger.Infof("BoltStore: Opened side-store file %s", path)
	return &BoltStore{db: db, log: logger}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionBucket).Get([]byte(key))
		if v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *BoltStore) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		s.log.Errorf("BoltStore: Failed to write key %s: %v", key, err)
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Remove(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
	if err != nil {
		s.log.Errorf("BoltStore: Failed to delete key %s: %v", key, err)
		return fmt.Errorf("bolt remove %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
