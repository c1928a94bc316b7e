package common

import (
	"math/rand"
	"sync"
	"time"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

var (
	rnd   = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	rndMu sync.Mutex
)

// RandomString returns a random string of n ASCII letters.
func RandomString(n int) string {
	b := make([]rune, n)
	rndMu.Lock()
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	rndMu.Unlock()
	return string(b)
}
