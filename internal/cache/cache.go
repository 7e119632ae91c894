package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Cache is a disk backed key value store with per entry expiration.
type Cache struct {
	db *badger.DB
}

// Open opens the cache stored at path. An empty path keeps the cache in memory.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path).
		WithNumVersionsToKeep(0).
		WithValueLogFileSize(1024 * 1024 * 100).
		WithLogger(&l{logger: logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to badger.Open: %w", err)
	}

	return &Cache{db: db}, nil
}

// Memoize retrieves a cached value for the specified cacheKey.
// If the value is present and decodes into V, it is returned with hit set. Otherwise fn
// is called to compute the value, which is then stored in the cache with the specified
// ttl and returned. Entries that no longer decode into V are overwritten.
// Errors of fn are returned as is and nothing is stored.
func Memoize[V any](c *Cache, cacheKey string, ttl time.Duration, fn func() (*V, error)) (value *V, hit bool, err error) {

	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			cached := new(V)
			if err := json.Unmarshal(val, cached); err != nil {
				return nil
			}
			value, hit = cached, true
			return nil
		})
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	} else if hit {
		return value, true, nil
	}

	value, err = fn()
	if err != nil {
		return nil, false, err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		valueJSONBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to json.Marshal: %w", err)
		}
		entry := badger.NewEntry([]byte(cacheKey), valueJSONBytes).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to store on cache: %w", err)
	}

	return value, false, nil
}

// Close closes the cache DB. It's crucial to call it to ensure all the pending updates make their way to disk. Calling Close multiple times would still only close the DB once.
func (c *Cache) Close() error {
	return c.db.Close()
}

// l adapts slog to the badger logger.
type l struct {
	logger *slog.Logger
}

func (l *l) Errorf(s string, i ...interface{}) {
	l.logger.Error(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Warningf(s string, i ...interface{}) {
	l.logger.Warn(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Infof(s string, i ...interface{}) {
	l.logger.Info(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Debugf(s string, i ...interface{}) {
	l.logger.Debug(fmt.Sprintf(s, i...), "component", "badger")
}
