package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const defaultBucket = "clipqr"

// ErrClosed is returned by operations on a closed storage
var ErrClosed = errors.New("storage is closed")

// Slot is durable key-value storage. Get returns nil and no error for a
// missing key.
type Slot interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// BoltStorage implements Slot on top of a single BoltDB bucket
type BoltStorage struct {
	db     *bbolt.DB
	bucket []byte
	logger *zap.Logger
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath  string
	Bucket  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewBoltStorage opens (creating when needed) the database and its bucket
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bucket := config.Bucket
	if bucket == "" {
		bucket = defaultBucket
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}

	if dir := filepath.Dir(config.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	logger.Debug("BoltStorage initialized",
		zap.String("db_path", config.DBPath),
		zap.String("bucket", bucket))

	return &BoltStorage{
		db:     db,
		bucket: []byte(bucket),
		logger: logger,
	}, nil
}

// Get returns a copy of the value stored under key
func (s *BoltStorage) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %q missing", s.bucket)
		}
		if v := b.Get([]byte(key)); v != nil {
			// bbolt values are only valid inside the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// Put stores value under key in its own transaction
func (s *BoltStorage) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
			return ErrClosed
		}
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	s.logger.Debug("Slot written", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BoltStorage) Delete(key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
			return ErrClosed
		}
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Path returns the database file path
func (s *BoltStorage) Path() string {
	return s.db.Path()
}

// Close closes the database connection
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
