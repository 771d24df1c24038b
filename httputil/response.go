package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/errutil"
)

func ReadResponseBody(ctx context.Context, resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if nil != err {
		switch {
		case errutil.IsContext(ctx):
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, context.DeadlineExceeded
		default:
			flawP := flaw.P{"err_debug_tree": errutil.Tree(err).FlawP()}
			return nil, flaw.From(fmt.Errorf("failed to read response body: %v", err)).Append(flawP)
		}
	}
	if len(respBody) == 0 {
		return nil, flaw.From(errors.New("unexpected empty response body"))
	}
	return respBody, nil
}

func ReadOptionalResponseBody(ctx context.Context, resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if nil != err {
		switch {
		case errutil.IsContext(ctx):
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, context.DeadlineExceeded
		default:
			flawP := flaw.P{"err_debug_tree": errutil.Tree(err).FlawP()}
			return nil, flaw.From(fmt.Errorf("failed to read response body: %v", err)).Append(flawP)
		}
	}
	return respBody, nil
}

// ErrorResponse is the body the drive API servers respond with on non 2xx
// status codes.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func ParseErrorResponse(b []byte) (*ErrorResponse, error) {
	var body ErrorResponse
	if err := json.Unmarshal(b, &body); nil != err {
		flawP := flaw.P{"response_body": string(b), "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to decode error response body: %v", err)).Append(flawP)
	}
	return &body, nil
}

var unauthorizedErrorCodes = []string{
	"AccessTokenInvalid",
	"AccessTokenExpired",
	"InvalidParameter.RefreshToken",
	"InvalidParameter.Token",
}

func (r ErrorResponse) IsUnauthorized() bool {
	return lo.Contains(unauthorizedErrorCodes, r.Code)
}

func (r ErrorResponse) IsTooManyRequests() bool {
	return r.Code == "TooManyRequests"
}
