package index

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

// Store is the on-disk catalog index a build reads its pages from.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".vitrine/index.db"
	// ReadOnly opens a shared lock, so several readers can use one index.
	ReadOnly bool
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if !opt.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: opt.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
