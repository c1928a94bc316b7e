package kvs

import (
	"encoding/json"
	"errors"
	"hash/fnv"
	"strconv"
	"time"
)

// KeyValueStore represents simple key value storage for cached results.
type KeyValueStore interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
	FlushDB() error
}

// TTLNever means do not expire a key
const TTLNever time.Duration = -1

// NanosecondsPerMillisecond is used to convert between ns and ms.
const NanosecondsPerMillisecond = 1000000

// ErrNotFound is returned when a key is not in the store.
var ErrNotFound = errors.New("key not found")

// Hash returns the hash value of a string. The returned value is useful
// as a key.
func Hash(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return strconv.FormatUint(h.Sum64(), 16)
}

// CacheKey returns a key for a rendered statement and its params. The same
// SQL with different params yields a different key.
func CacheKey(sql string, args []interface{}) (string, error) {
	h := fnv.New64a()
	h.Write([]byte(sql))
	if len(args) > 0 {
		b, err := json.Marshal(args)
		if err != nil {
			return "", err
		}
		// NUL cannot occur in Postgres SQL text
		h.Write([]byte{0})
		h.Write(b)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
