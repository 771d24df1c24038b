package scan

import (
	"context"

	"github.com/xeptore/aliscan/scan/model"
)

// TokenLogin trades the access token of a confirmed QR code login for a
// redirect carrying an authorization code.
func (c *Client) TokenLogin(ctx context.Context, accessToken string) (*model.GotoResponse, error) {
	reqURL, err := joinURL(c.endpoints.AuthBaseURL, "/v2/oauth/token_login")
	if nil != err {
		return nil, err
	}
	req, err := newJSONRequest(ctx, reqURL, map[string]string{"token": accessToken})
	if nil != err {
		return nil, err
	}
	respBytes, err := c.send(ctx, req)
	if nil != err {
		return nil, err
	}
	return model.DecodeGotoResponse(respBytes)
}

// ExchangeCode trades an authorization code for the web login tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.WebLoginResponse, error) {
	reqURL, err := joinURL(c.endpoints.APIBaseURL, "/token/get")
	if nil != err {
		return nil, err
	}
	req, err := newJSONRequest(ctx, reqURL, map[string]string{"code": code})
	if nil != err {
		return nil, err
	}
	respBytes, err := c.send(ctx, req)
	if nil != err {
		return nil, err
	}
	return model.DecodeWebLoginResponse(respBytes)
}

// Refresh issues a single token refresh request. A response missing any of
// the mandatory fields fails with model.ErrMissingMandatoryField.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error) {
	reqURL, err := joinURL(c.endpoints.APIBaseURL, "/token/refresh")
	if nil != err {
		return nil, err
	}
	req, err := newJSONRequest(ctx, reqURL, map[string]string{"refresh_token": refreshToken})
	if nil != err {
		return nil, err
	}
	respBytes, err := c.send(ctx, req)
	if nil != err {
		return nil, err
	}
	return model.DecodeRefreshTokenResponse(respBytes)
}
