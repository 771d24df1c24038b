package model_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xeptore/aliscan/scan/model"
)

func TestAccessTokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Unix(1893456000, 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1", "exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := model.AccessTokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, exp.Equal(got), "expected %v, got %v", exp, got)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok = model.AccessTokenExpiry(noExp)
	assert.False(t, ok)

	_, ok = model.AccessTokenExpiry("opaque-token")
	assert.False(t, ok)
}
