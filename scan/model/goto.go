package model

import (
	"errors"

	"github.com/samber/lo"
)

// CodeKey is the redirect query parameter carrying the authorization code.
const CodeKey = "code"

// GotoResponse is the token login response. Goto is absent when the login
// produced no redirect.
type GotoResponse struct {
	Target *string `json:"goto"`
}

func NewGotoResponse(target string) GotoResponse {
	return GotoResponse{Target: lo.ToPtr(target)}
}

func (r GotoResponse) Goto() (string, bool) {
	return optional(r.Target)
}

// ExtractAuthorizationCode returns the code query parameter of the redirect
// target as is.
func (r GotoResponse) ExtractAuthorizationCode() (string, error) {
	target, ok := r.Goto()
	if !ok {
		return "", ErrMissingRedirectTarget
	}

	code, err := QueryParam(target, CodeKey)
	if nil != err {
		if errors.Is(err, ErrParameterNotFound) {
			return "", ErrAuthorizationCodeNotFound
		}
		return "", err
	}
	return code, nil
}
