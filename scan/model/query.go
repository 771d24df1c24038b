package model

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryParam returns the raw value of the first key parameter in rawURL query.
// Values are returned exactly as they appear in the query string; no percent
// decoding is applied to keys or values.
func QueryParam(rawURL, key string) (string, error) {
	if key == "" {
		panic("empty query parameter key")
	}

	u, err := url.Parse(rawURL)
	if nil != err {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: relative url %q", ErrInvalidURL, rawURL)
	}

	query := u.RawQuery
	if query == "" {
		// A bare trailing ? is an empty query, not a missing one
		if u.ForceQuery {
			return "", fmt.Errorf("%w: %s", ErrParameterNotFound, key)
		}
		return "", ErrMissingQuery
	}

	for _, param := range strings.Split(query, "&") {
		k, v, hasValue := strings.Cut(param, "=")
		if k == "" {
			return "", fmt.Errorf("%w: %q", ErrMalformedParameter, param)
		}
		if k == key {
			if !hasValue {
				return "", fmt.Errorf("%w: %q has no value", ErrMalformedParameter, param)
			}
			return v, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrParameterNotFound, key)
}
