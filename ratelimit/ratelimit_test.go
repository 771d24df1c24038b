package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xeptore/aliscan/ratelimit"
)

func TestPollBackoff(t *testing.T) {
	t.Parallel()
	interval := 3 * time.Second
	for range 100 {
		d := ratelimit.PollBackoff(interval)
		assert.GreaterOrEqual(t, d, 2*interval)
		assert.LessOrEqual(t, d, 3*interval)
	}
}
