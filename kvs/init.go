package kvs

import log "github.com/mgutz/logxi"

var logger log.Logger

func init() {
	logger = log.New("pgchain:kvs")
}
