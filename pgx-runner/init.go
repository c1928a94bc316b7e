package runner

import (
	"time"

	log "github.com/mgutz/logxi"
)

var logger log.Logger

// LogQueriesThreshold is the threshold for logging "slow" queries
var LogQueriesThreshold time.Duration

func init() {
	logger = log.New("pgchain:pgx")
}
