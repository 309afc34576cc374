package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

// bucketSlots holds every slot; key -> raw value.
var bucketSlots = []byte("slots")

// Bolt implements Slots on a BoltDB file.
type Bolt struct {
	db       *bolt.DB
	path     string
	readOnly bool
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (and for writable handles, creates) the slot database.
//
// Returns an error if the file lock cannot be taken within cfg.Timeout,
// which happens while another punchclock process holds the database.
func Open(cfg Config, log logger.Logger) (*Bolt, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	path := ExpandHome(cfg.DBPath)
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if !cfg.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout:  cfg.Timeout,
		ReadOnly: cfg.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if !cfg.ReadOnly {
		if err := db.Update(func(tx *bolt.Tx) error {
			_, createErr := tx.CreateBucketIfNotExists(bucketSlots)
			return createErr
		}); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("failed to close database after initialization error",
					"error", closeErr)
			}
			return nil, fmt.Errorf("failed to create slots bucket: %w", err)
		}
	}

	log.Debug("slot store opened", "db_path", path, "read_only", cfg.ReadOnly)

	return &Bolt{
		db:       db,
		path:     path,
		readOnly: cfg.ReadOnly,
		logger:   log,
	}, nil
}

// Path returns the resolved database file path.
func (b *Bolt) Path() string {
	return b.path
}

// Get implements Slots.Get.
func (b *Bolt) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSlots)
		if bucket == nil {
			// Read-only handle on a database no writer has initialized yet.
			return nil
		}

		if data := bucket.Get([]byte(key)); data != nil {
			// Bolt values are only valid for the life of the transaction.
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return value, nil
}

// Put implements Slots.Put.
func (b *Bolt) Put(key string, value []byte) error {
	return b.Update(func(w Writer) error {
		return w.Put(key, value)
	})
}

// Delete implements Slots.Delete.
func (b *Bolt) Delete(key string) error {
	return b.Update(func(w Writer) error {
		return w.Delete(key)
	})
}

// Update implements Slots.Update.
func (b *Bolt) Update(mutations ...Mutation) error {
	if b.readOnly {
		return ErrReadOnly
	}
	if err := b.checkOpen(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		w := &txWriter{bucket: tx.Bucket(bucketSlots)}
		for _, mutate := range mutations {
			if mutate == nil {
				continue
			}
			if err := mutate(w); err != nil {
				return err
			}
		}

		b.logger.Debug("slots updated", "puts", w.puts, "deletes", w.deletes)
		return nil
	})
}

// Close implements Slots.Close.
func (b *Bolt) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	b.logger.Debug("slot store closed", "db_path", b.path)
	return nil
}

func (b *Bolt) checkOpen() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// txWriter adapts a bolt bucket inside an update transaction.
type txWriter struct {
	bucket  *bolt.Bucket
	puts    int
	deletes int
}

func (w *txWriter) Put(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := w.bucket.Put([]byte(key), value); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	w.puts++
	return nil
}

func (w *txWriter) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := w.bucket.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	w.deletes++
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
