package kvs

import (
	"time"

	"github.com/garyburd/redigo/redis"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// Namespace is prepended to every key as "namespace:".
	Namespace string
	Host      string
	Password  string
	// MaxIdle connections kept in the pool. Defaults to 3.
	MaxIdle     int
	IdleTimeout time.Duration
}

func newRedisPool(opts *RedisOptions) *redis.Pool {
	maxIdle := opts.MaxIdle
	if maxIdle == 0 {
		maxIdle = 3
	}
	idleTimeout := opts.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 240 * time.Second
	}

	return &redis.Pool{
		MaxIdle:     maxIdle,
		IdleTimeout: idleTimeout,
		Dial: func() (redis.Conn, error) {
			c, err := redis.Dial("tcp", opts.Host)
			if err != nil {
				return nil, err
			}
			if opts.Password != "" {
				if _, err := c.Do("AUTH", opts.Password); err != nil {
					c.Close()
					return nil, err
				}
			}
			return c, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
}

// NewDefaultRedisStore connects to a local redis on :6379 with the "pgchain"
// namespace.
func NewDefaultRedisStore() (KeyValueStore, error) {
	return NewRedisStore(&RedisOptions{Namespace: "pgchain", Host: ":6379"})
}

// NewRedisStore creates a RedisStore. The connection is verified with PING.
func NewRedisStore(opts *RedisOptions) (*RedisStore, error) {
	logger.Info("Creating redis pool", "ns", opts.Namespace, "host", opts.Host, "usingPassword", opts.Password != "")
	pool := newRedisPool(opts)

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, logger.Error("Could not connect to redis", "host", opts.Host, "err", err)
	}

	return &RedisStore{ns: opts.Namespace + ":", pool: pool}, nil
}

// RedisStore is a KeyValueStore backed by Redis.
type RedisStore struct {
	pool *redis.Pool
	ns   string
}

// Set sets a key's value with TTL. Use TTLNever to never expire.
func (rs *RedisStore) Set(key, value string, ttl time.Duration) error {
	conn := rs.pool.Get()
	defer conn.Close()
	var err error

	key = rs.ns + key

	if ttl == TTLNever {
		_, err = conn.Do("SET", key, value)
	} else {
		_, err = conn.Do("SET", key, value, "PX", ttlMillis(ttl))
	}
	return err
}

// ttlMillis converts ttl to the PX argument. Redis rejects PX 0 so anything
// shorter than a millisecond is rounded up.
func ttlMillis(ttl time.Duration) int64 {
	ms := ttl.Nanoseconds() / NanosecondsPerMillisecond
	if ms < 1 {
		return 1
	}
	return ms
}

// Get gets a key's value or ErrNotFound.
func (rs *RedisStore) Get(key string) (string, error) {
	conn := rs.pool.Get()
	defer conn.Close()

	s, err := redis.String(conn.Do("GET", rs.ns+key))
	if err == redis.ErrNil {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return s, nil
}

// Del deletes a key
func (rs *RedisStore) Del(key string) error {
	conn := rs.pool.Get()
	defer conn.Close()
	_, err := conn.Do("DEL", rs.ns+key)
	return err
}

// FlushDB removes the keys in this store's namespace.
func (rs *RedisStore) FlushDB() error {
	conn := rs.pool.Get()
	defer conn.Close()

	cursor := "0"
	for {
		reply, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", rs.ns+"*", "COUNT", 500))
		if err != nil {
			return err
		}
		if len(reply) != 2 {
			return redis.Error("unexpected SCAN reply")
		}
		if cursor, err = redis.String(reply[0], nil); err != nil {
			return err
		}
		keys, err := redis.Strings(reply[1], nil)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			args := make([]interface{}, len(keys))
			for i, k := range keys {
				args[i] = k
			}
			if _, err := conn.Do("DEL", args...); err != nil {
				return err
			}
		}
		if cursor == "0" {
			return nil
		}
	}
}

// Close releases the pool's connections.
func (rs *RedisStore) Close() error {
	return rs.pool.Close()
}
