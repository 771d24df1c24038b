package ratelimit

import (
	"math/rand/v2"
	"time"
)

// PollBackoff returns the delay before polling again after a rate limited
// response. It is between two and three times interval.
func PollBackoff(interval time.Duration) time.Duration {
	jitter := time.Duration(rand.Int64N(int64(interval) + 1)) //nolint:gosec
	return 2*interval + jitter
}
