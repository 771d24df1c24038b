package model

// AuthorizationToken is implemented by login responses which may or may not
// carry tokens yet. A false second return value means the login is not
// complete, and is never an error.
type AuthorizationToken interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
}

var (
	_ AuthorizationToken = WebLoginResponse{}
	_ AuthorizationToken = MobileLoginResponse{}
)

// HasTokens reports whether both tokens of t are present.
func HasTokens(t AuthorizationToken) bool {
	_, okAccess := t.AccessToken()
	_, okRefresh := t.RefreshToken()
	return okAccess && okRefresh
}

func optional(s *string) (string, bool) {
	if nil == s {
		return "", false
	}
	return *s, true
}
