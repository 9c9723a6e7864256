// internal/store/store.go
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketConfig = "config"
	keySlaveAddr = "slave_addr"
)

// Store is the device's durable configuration storage: a single-file
// key-value store with committed writes. One key today; the bucket
// leaves room for more.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store file and ensures the config bucket
// exists. Failure here is a boot-time fatal for the caller.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketConfig))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the store file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SlaveAddress returns the persisted bus address, or def when none has
// ever been saved.
func (s *Store) SlaveAddress(def uint8) (uint8, error) {
	addr := def
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketConfig))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(keySlaveAddr)); len(v) == 1 {
			addr = v[0]
		}
		return nil
	})
	if err != nil {
		return def, fmt.Errorf("store: read %s: %w", keySlaveAddr, err)
	}
	return addr, nil
}

// SetSlaveAddress persists a new bus address. The write is committed
// before return; the in-memory device address is deliberately NOT
// touched — the new value applies at the next boot.
func (s *Store) SetSlaveAddress(addr uint8) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketConfig)).Put([]byte(keySlaveAddr), []byte{addr})
	})
	if err != nil {
		return fmt.Errorf("store: write %s: %w", keySlaveAddr, err)
	}
	return nil
}
