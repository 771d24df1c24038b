package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xeptore/aliscan/log"
)

func TestRedactString(t *testing.T) {
	t.Parallel()

	assert.Empty(t, log.RedactString(""))
	assert.Equal(t, "********", log.RedactString("abcdefgh"))
	assert.Equal(t, "abcd*efgh", log.RedactString("abcdXefgh"))
	assert.Equal(t, "eyJh**********KxQ9", log.RedactString("eyJhbGciOiJIUzKxQ9"))
}
