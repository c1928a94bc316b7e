package runner

import (
	"time"

	log "github.com/mgutz/logxi"
	"github.com/mgutz/pgchain/kvs"
)

var logger log.Logger

// LogQueriesThreshold is the threshold for logging "slow" queries
var LogQueriesThreshold time.Duration

// LogErrNoRows tells runner to log no-row errors. It is off by default since
// no rows is an expected outcome of most lookups.
var LogErrNoRows bool

// PendingTransactionsTimeout is the time a transaction may stay open before
// it is reported in Strict mode.
var PendingTransactionsTimeout = 1 * time.Minute

// Cache caches query results. Results are only cached for executers that
// call Cache(). Set it to nil to disable caching.
var Cache kvs.KeyValueStore

func init() {
	logger = log.New("pgchain:sqlx")
}

// SetCache sets the store used by executers that call Cache().
func SetCache(store kvs.KeyValueStore) {
	Cache = store
}
