package must_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/must"
	"github.com/xeptore/aliscan/scan/model"
)

func TestBeFlaw(t *testing.T) {
	t.Parallel()

	t.Run("flaw", func(t *testing.T) {
		t.Parallel()
		f := flaw.From(errors.New("failed to decode goto response"))
		assert.Same(t, f, must.BeFlaw(f))
	})

	t.Run("sentinel", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { must.BeFlaw(model.ErrMissingQuery) })
	})
}
