package kvs

import (
	"time"

	gocache "github.com/pmylund/go-cache"
)

// MemoryKeyValueStore is an in-memory implementation of KeyValueStore.
type MemoryKeyValueStore struct {
	cache           *gocache.Cache
	cleanupInterval time.Duration
}

// NewDefaultMemoryStore creates an instance of MemoryKeyValueStore
// with default settings.
func NewDefaultMemoryStore() KeyValueStore {
	return NewMemoryKeyValueStore(30 * time.Second)
}

// NewMemoryKeyValueStore creates a store which evicts expired keys every
// cleanupInterval.
func NewMemoryKeyValueStore(cleanupInterval time.Duration) *MemoryKeyValueStore {
	return &MemoryKeyValueStore{
		cache:           gocache.New(gocache.NoExpiration, cleanupInterval),
		cleanupInterval: cleanupInterval,
	}
}

// Set sets a key with time-to-live. Use TTLNever to keep the key until it is
// deleted.
func (store *MemoryKeyValueStore) Set(key, value string, ttl time.Duration) error {
	if ttl == TTLNever {
		ttl = gocache.NoExpiration
	}
	store.cache.Set(key, value, ttl)
	return nil
}

// Get retrieves a value given key. Expired keys are not found even if the
// janitor has not yet removed them.
func (store *MemoryKeyValueStore) Get(key string) (string, error) {
	val, found := store.cache.Get(key)
	if !found {
		return "", ErrNotFound
	}
	return val.(string), nil
}

// Del deletes value given key.
func (store *MemoryKeyValueStore) Del(key string) error {
	store.cache.Delete(key)
	return nil
}

// FlushDB clears all keys
func (store *MemoryKeyValueStore) FlushDB() error {
	store.cache.Flush()
	return nil
}
