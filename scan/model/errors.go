package model

import (
	"errors"
)

var (
	ErrInvalidURL                = errors.New("invalid url")
	ErrMissingQuery              = errors.New("url has no query")
	ErrMalformedParameter        = errors.New("malformed query parameter")
	ErrParameterNotFound         = errors.New("query parameter not found")
	ErrMissingRedirectTarget     = errors.New("goto value is missing")
	ErrAuthorizationCodeNotFound = errors.New("authorization code not found")
	ErrMissingMandatoryField     = errors.New("mandatory field is missing")
)

// IsPending reports whether err means the login has not produced a usable
// redirect yet, so the caller should keep polling instead of aborting.
func IsPending(err error) bool {
	return errors.Is(err, ErrMissingRedirectTarget) || errors.Is(err, ErrAuthorizationCodeNotFound)
}
