package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/config"
	"github.com/xeptore/aliscan/errutil"
	"github.com/xeptore/aliscan/log"
	"github.com/xeptore/aliscan/ratelimit"
	"github.com/xeptore/aliscan/result"
	"github.com/xeptore/aliscan/scan/model"
)

var ErrAuthWaitTimeout = errors.New("authorization wait timeout")

// LoginAPI is the set of requests an Authorizer issues. *Client implements it.
type LoginAPI interface {
	GenerateQRCode(ctx context.Context) (*QRCode, error)
	QueryQRCode(ctx context.Context, qr *QRCode) (*QRCodeStatus, error)
	TokenLogin(ctx context.Context, accessToken string) (*model.GotoResponse, error)
	ExchangeCode(ctx context.Context, code string) (*model.WebLoginResponse, error)
}

var _ LoginAPI = (*Client)(nil)

type AuthorizationResult struct {
	CodeContent string
	ExpiresIn   time.Duration
}

// NewAuthorizer generates a login QR code and polls its status in the
// background until the session is authenticated, fails, or cfg.LoginTimeout
// is reached. Exactly one result is sent on wait before it is closed.
func NewAuthorizer(ctx context.Context, api LoginAPI, cfg config.Config, logger zerolog.Logger) (link *AuthorizationResult, wait <-chan result.Of[Credentials], err error) {
	qr, err := api.GenerateQRCode(ctx)
	if nil != err {
		return nil, nil, err
	}

	logger = logger.With().Str("session_id", uuid.NewString()).Logger()
	ctx, cancel := context.WithTimeout(ctx, cfg.LoginTimeout)
	ticker := time.NewTicker(cfg.PollInterval)
	done := make(chan result.Of[Credentials], 1)
	machine := NewMachine(cfg.ExchangeCode)

	go func() {
		defer close(done)
		defer ticker.Stop()
		defer cancel()
		defer func() {
			if r := recover(); nil != r {
				logger.Error().Func(log.Panic(r)).Msg("Authorizer has panicked")
				done <- result.Err[Credentials](flaw.From(fmt.Errorf("authorizer panicked: %v", r)))
			}
		}()

		var limited bool
		for {
			select {
			case <-ctx.Done():
				done <- result.Err[Credentials](waitEnded(ctx))
				return
			case <-ticker.C:
				if err := step(ctx, api, qr, machine, logger); nil != err {
					switch {
					case errutil.IsContext(ctx):
						done <- result.Err[Credentials](waitEnded(ctx))
						return
					case errors.Is(err, context.DeadlineExceeded):
						// A single request has timed out, not the auth-wait context
						done <- result.Err[Credentials](flaw.From(errors.New("failed to poll login status due to timeout")))
						return
					case errors.Is(err, ErrTooManyRequests):
						backoff := ratelimit.PollBackoff(cfg.PollInterval)
						logger.Warn().Stringer("state", machine.State()).Stringer("backoff", backoff).Msg("Login status poll was rate limited")
						ticker.Reset(backoff)
						limited = true
						continue
					default:
						machine.Fail(err)
					}
				}
				if limited {
					ticker.Reset(cfg.PollInterval)
					limited = false
				}

				switch machine.State() {
				case StateAuthenticated:
					done <- result.Ok(machine.Credentials())
					return
				case StateFailed:
					done <- result.Err[Credentials](machine.Err())
					return
				case StatePending, StateCodeObtained:
				}
			}
		}
	}()

	return &AuthorizationResult{
		CodeContent: qr.CodeContent,
		ExpiresIn:   cfg.LoginTimeout,
	}, done, nil
}

func waitEnded(ctx context.Context) error {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrAuthWaitTimeout
	case errors.Is(err, context.Canceled):
		return context.Canceled
	default:
		flawP := flaw.P{"err_debug_tree": errutil.Tree(err).FlawP()}
		return flaw.From(fmt.Errorf("authorization wait context errored with unknown error: %v", err)).Append(flawP)
	}
}

func step(ctx context.Context, api LoginAPI, qr *QRCode, m *Machine, logger zerolog.Logger) error {
	switch s := m.State(); s {
	case StatePending:
		if accessToken, ok := m.MobileAccessToken(); ok {
			res, err := api.TokenLogin(ctx, accessToken)
			if nil != err {
				return err
			}
			state := m.ObserveGoto(*res)
			logger.Debug().Stringer("state", state).Msg("Observed token login redirect")
			return nil
		}

		status, err := api.QueryQRCode(ctx, qr)
		if nil != err {
			return err
		}
		state := m.ObserveQRCodeStatus(*status)
		logger.Trace().Str("qr_code_state", string(status.State)).Stringer("state", state).Msg("Polled QR code status")
		return nil
	case StateCodeObtained:
		res, err := api.ExchangeCode(ctx, m.Code())
		if nil != err {
			return err
		}
		state := m.ObserveWebLogin(*res)
		logger.Debug().Stringer("state", state).Msg("Exchanged authorization code")
		return nil
	default:
		panic(fmt.Sprintf("unexpected poll in %s state", s))
	}
}
