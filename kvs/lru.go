package kvs

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruEntry struct {
	value     string
	expiresAt time.Time
}

// LRUStore is a size bounded in-memory KeyValueStore. The least recently
// used key is evicted once the store holds size keys.
type LRUStore struct {
	cache *lru.Cache[string, lruEntry]
	mu    sync.Mutex
	now   func() time.Time
}

// NewLRUStore creates an LRUStore holding at most size keys.
func NewLRUStore(size int) (*LRUStore, error) {
	cache, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: cache, now: time.Now}, nil
}

// Set sets a key with time-to-live. Use TTLNever to keep the key until it is
// evicted or deleted.
func (store *LRUStore) Set(key, value string, ttl time.Duration) error {
	entry := lruEntry{value: value}
	if ttl != TTLNever && ttl > 0 {
		entry.expiresAt = store.now().Add(ttl)
	}
	store.mu.Lock()
	store.cache.Add(key, entry)
	store.mu.Unlock()
	return nil
}

// Get retrieves a value given key. An expired key is removed and reported as
// ErrNotFound.
func (store *LRUStore) Get(key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.cache.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !store.now().Before(entry.expiresAt) {
		store.cache.Remove(key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

// Del deletes value given key.
func (store *LRUStore) Del(key string) error {
	store.mu.Lock()
	store.cache.Remove(key)
	store.mu.Unlock()
	return nil
}

// FlushDB clears all keys
func (store *LRUStore) FlushDB() error {
	store.mu.Lock()
	store.cache.Purge()
	store.mu.Unlock()
	return nil
}

// Len returns the number of keys, expired keys included.
func (store *LRUStore) Len() int {
	return store.cache.Len()
}
