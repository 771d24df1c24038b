package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry reads the exp claim of a JWT access token without
// verifying its signature. It reports false for tokens which are not JWTs or
// carry no expiration.
func AccessTokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); nil != err {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if nil != err || nil == exp {
		return time.Time{}, false
	}
	return exp.Time, true
}
