package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/config"
	"github.com/xeptore/aliscan/errutil"
	"github.com/xeptore/aliscan/httputil"
	"github.com/xeptore/aliscan/must"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTooManyRequests = errors.New("too many requests")
)

// Client talks to the passport, auth, and api servers taking part in a QR
// code login. It performs exactly one request per call.
type Client struct {
	endpoints config.Endpoints
	http      *http.Client
}

func NewClient(endpoints config.Endpoints, timeout time.Duration) *Client {
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: timeout}, //nolint:exhaustruct
	}
}

func newJSONRequest(ctx context.Context, reqURL string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if nil != err {
		flawP := flaw.P{"url": reqURL, "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to encode request body: %v", err)).Append(flawP)
	}
	req, err := newRequest(ctx, http.MethodPost, reqURL, bytes.NewReader(b))
	if nil != err {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return req, nil
}

func newFormRequest(ctx context.Context, reqURL string, params url.Values) (*http.Request, error) {
	req, err := newRequest(ctx, http.MethodPost, reqURL, bytes.NewBufferString(params.Encode()))
	if nil != err {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if nil != err {
		if errutil.IsContext(ctx) {
			return nil, ctx.Err()
		}
		flawP := flaw.P{"url": reqURL, "err_debug_tree": errutil.Tree(err).FlawP()}
		return nil, flaw.From(fmt.Errorf("failed to create request: %v", err)).Append(flawP)
	}
	req.Header.Add("Accept", "application/json")
	return req, nil
}

// send issues req and returns the body of a 200 response. Error bodies are
// mapped to ErrUnauthorized or ErrTooManyRequests when recognized.
func (c *Client) send(ctx context.Context, req *http.Request) (respBytes []byte, err error) {
	flawP := flaw.P{"request": errutil.HTTPRequestFlawPayload(req)}

	resp, err := c.http.Do(req)
	if nil != err {
		switch {
		case errutil.IsContext(ctx):
			return nil, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			return nil, context.DeadlineExceeded
		default:
			flawP["err_debug_tree"] = errutil.Tree(err).FlawP()
			return nil, flaw.From(fmt.Errorf("failed to issue request: %v", err)).Append(flawP)
		}
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			flawP["err_debug_tree"] = errutil.Tree(closeErr).FlawP()
			closeErr = flaw.From(fmt.Errorf("failed to close response body: %v", closeErr)).Append(flawP)
			switch {
			case nil == err:
				err = closeErr
			case errutil.IsContext(ctx):
				err = flaw.From(errors.New("context was ended")).Join(closeErr)
			case errors.Is(err, context.DeadlineExceeded):
				err = flaw.From(errors.New("timeout has reached")).Join(closeErr)
			case errors.Is(err, ErrUnauthorized):
				err = flaw.From(errors.New("received unauthorized error")).Join(closeErr)
			case errors.Is(err, ErrTooManyRequests):
				err = flaw.From(errors.New("received too many requests error")).Join(closeErr)
			default:
				err = must.BeFlaw(err).Join(closeErr)
			}
		}
	}()
	flawP["response"] = errutil.HTTPResponseFlawPayload(resp)

	switch code := resp.StatusCode; code {
	case http.StatusOK:
		respBytes, err := httputil.ReadResponseBody(ctx, resp)
		if nil != err {
			if errutil.IsFlaw(err) {
				return nil, must.BeFlaw(err).Append(flawP)
			}
			return nil, err
		}
		return respBytes, nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		respBytes, err := httputil.ReadOptionalResponseBody(ctx, resp)
		if nil != err {
			return nil, err
		}
		if code == http.StatusTooManyRequests {
			return nil, ErrTooManyRequests
		}
		flawP["response_body"] = string(respBytes)

		errResp, err := httputil.ParseErrorResponse(respBytes)
		if nil != err {
			return nil, must.BeFlaw(err).Append(flawP)
		}
		switch {
		case errResp.IsUnauthorized():
			return nil, ErrUnauthorized
		case errResp.IsTooManyRequests():
			return nil, ErrTooManyRequests
		default:
			return nil, flaw.From(fmt.Errorf("unexpected %d response with code %q: %s", code, errResp.Code, errResp.Message)).Append(flawP)
		}
	default:
		respBytes, err := httputil.ReadOptionalResponseBody(ctx, resp)
		if nil != err {
			return nil, err
		}
		flawP["response_body"] = string(respBytes)
		return nil, flaw.From(fmt.Errorf("unexpected status code: %d", code)).Append(flawP)
	}
}

func joinURL(base string, elem ...string) (string, error) {
	reqURL, err := url.JoinPath(base, elem...)
	if nil != err {
		flawP := flaw.P{"base_url": base, "err_debug_tree": errutil.Tree(err).FlawP()}
		return "", flaw.From(fmt.Errorf("failed to create request url: %v", err)).Append(flawP)
	}
	return reqURL, nil
}
