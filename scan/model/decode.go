package model

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/errutil"
)

var refreshTokenResponseFields = []struct {
	key string
	typ gjson.Type
}{
	{key: "access_token", typ: gjson.String},
	{key: "refresh_token", typ: gjson.String},
	{key: "expires_in", typ: gjson.Number},
	{key: "token_type", typ: gjson.String},
	{key: "user_id", typ: gjson.String},
	{key: "nick_name", typ: gjson.String},
	{key: "default_drive_id", typ: gjson.String},
}

// DecodeRefreshTokenResponse decodes b rejecting any payload that lacks one of
// the response mandatory fields, or carries it with an unexpected JSON type.
func DecodeRefreshTokenResponse(b []byte) (*RefreshTokenResponse, error) {
	if !gjson.ValidBytes(b) {
		return nil, flaw.From(errors.New("invalid refresh token response json")).Append(flaw.P{"response_body": string(b)})
	}

	for _, f := range refreshTokenResponseFields {
		switch v := gjson.GetBytes(b, f.key); {
		case !v.Exists(), v.Type == gjson.Null:
			return nil, fmt.Errorf("%w: %s", ErrMissingMandatoryField, f.key)
		case v.Type != f.typ:
			return nil, fmt.Errorf("%w: %s has unexpected type %s", ErrMissingMandatoryField, f.key, v.Type)
		}
	}

	var out RefreshTokenResponse
	if err := json.Unmarshal(b, &out); nil != err {
		flawP := flaw.P{"response_body": string(b), "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to decode refresh token response: %v", err)).Append(flawP)
	}
	return &out, nil
}

func DecodeWebLoginResponse(b []byte) (*WebLoginResponse, error) {
	return decode[WebLoginResponse](b, "web login")
}

func DecodeMobileLoginResponse(b []byte) (*MobileLoginResponse, error) {
	return decode[MobileLoginResponse](b, "mobile login")
}

func DecodeGotoResponse(b []byte) (*GotoResponse, error) {
	return decode[GotoResponse](b, "goto")
}

// DecodeBizExt decodes the base64 encoded bizExt field of a confirmed QR code
// status into the mobile login response it carries.
func DecodeBizExt(bizExt string) (*MobileLoginResponse, error) {
	b, err := base64.StdEncoding.DecodeString(bizExt)
	if nil != err {
		flawP := flaw.P{"biz_ext": bizExt, "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to decode base64 bizExt: %v", err)).Append(flawP)
	}
	return DecodeMobileLoginResponse(b)
}

func decode[T any](b []byte, name string) (*T, error) {
	var out T
	if err := json.Unmarshal(b, &out); nil != err {
		flawP := flaw.P{"response_body": string(b), "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to decode %s response: %v", name, err)).Append(flawP)
	}
	return &out, nil
}
