package snapshot

import (
	"math/rand/v2"
	"strings"
	"time"
)

// retryConfig bounds the retries of one store write.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// transientMarkers are fragments of modernc.org/sqlite error text that mean
// another connection held a lock: BUSY (5), LOCKED (6), IOERR_SHORT_READ (522).
var transientMarkers = []string{
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"IOERR_SHORT_READ",
	"database is locked",
	"database table is locked",
	"(5)",
	"(6)",
	"(522)",
}

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

// retryOp runs fn until it succeeds, fails permanently or runs out of
// attempts, sleeping with capped exponential backoff plus jitter between tries.
func retryOp(cfg retryConfig, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || !isTransientSQLiteErr(err) || attempt >= cfg.maxRetries {
			return err
		}
		time.Sleep(backoffDelay(cfg, attempt))
	}
}

func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := min(cfg.baseDelay<<uint(attempt), cfg.maxDelay)
	return delay + rand.N(cfg.baseDelay)
}
