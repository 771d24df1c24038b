package scan_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xeptore/aliscan/config"
	"github.com/xeptore/aliscan/errutil"
	"github.com/xeptore/aliscan/result"
	"github.com/xeptore/aliscan/scan"
	"github.com/xeptore/aliscan/scan/model"
)

type fakeLoginAPI struct {
	mux       sync.Mutex
	statuses  []scan.QRCodeStatus
	statusErr []error
	gotos     []model.GotoResponse
	login     model.WebLoginResponse
	codes     []string
}

func (f *fakeLoginAPI) GenerateQRCode(context.Context) (*scan.QRCode, error) {
	return &scan.QRCode{T: 1, CK: "ck", CodeContent: "https://passport.example.com/qrcodeCheck.htm?lgToken=x"}, nil
}

func (f *fakeLoginAPI) QueryQRCode(context.Context, *scan.QRCode) (*scan.QRCodeStatus, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	if len(f.statusErr) > 0 {
		err := f.statusErr[0]
		f.statusErr = f.statusErr[1:]
		if nil != err {
			return nil, err
		}
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return &status, nil
}

func (f *fakeLoginAPI) TokenLogin(_ context.Context, accessToken string) (*model.GotoResponse, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	if accessToken != "acc" {
		return nil, scan.ErrUnauthorized
	}
	res := f.gotos[0]
	if len(f.gotos) > 1 {
		f.gotos = f.gotos[1:]
	}
	return &res, nil
}

func (f *fakeLoginAPI) ExchangeCode(_ context.Context, code string) (*model.WebLoginResponse, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.codes = append(f.codes, code)
	res := f.login
	return &res, nil
}

func testConfig(loginTimeout time.Duration, exchangeCode bool) config.Config {
	cfg := config.Default()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.LoginTimeout = loginTimeout
	cfg.ExchangeCode = exchangeCode
	return cfg
}

func waitResult(t *testing.T, wait <-chan result.Of[scan.Credentials]) result.Of[scan.Credentials] {
	t.Helper()
	select {
	case res, ok := <-wait:
		require.True(t, ok, "expected a result before channel close")
		_, open := <-wait
		assert.False(t, open, "expected channel to be closed after the result")
		return res
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for authorizer result")
		return result.Err[scan.Credentials](nil)
	}
}

func TestAuthorizerCodeExchange(t *testing.T) {
	t.Parallel()

	api := &fakeLoginAPI{
		statuses: []scan.QRCodeStatus{
			{State: scan.QRCodeNew},
			{State: scan.QRCodeScanned},
			confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref")),
		},
		statusErr: []error{nil, scan.ErrTooManyRequests},
		gotos: []model.GotoResponse{
			{},
			model.NewGotoResponse("https://www.aliyundrive.com/sign/callback?code=ABC123"),
		},
		login: model.WebLoginResponse{Access: lo.ToPtr("web-acc"), Refresh: lo.ToPtr("web-ref"), DefaultDriveID: lo.ToPtr("d1")},
	}

	link, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(5*time.Second, true), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://passport.example.com/qrcodeCheck.htm?lgToken=x", link.CodeContent)
	assert.Equal(t, 5*time.Second, link.ExpiresIn)

	res := waitResult(t, wait)
	require.NoError(t, res.Err())
	assert.Equal(t, &scan.Credentials{AccessToken: "web-acc", RefreshToken: "web-ref", DriveID: lo.ToPtr("d1")}, res.Unwrap())

	api.mux.Lock()
	defer api.mux.Unlock()
	assert.Equal(t, []string{"ABC123"}, api.codes)
}

func TestAuthorizerDirect(t *testing.T) {
	t.Parallel()

	api := &fakeLoginAPI{
		statuses: []scan.QRCodeStatus{
			{State: scan.QRCodeNew},
			confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref")),
		},
	}

	_, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(5*time.Second, false), zerolog.Nop())
	require.NoError(t, err)

	res := waitResult(t, wait)
	require.NoError(t, res.Err())
	assert.Equal(t, &scan.Credentials{AccessToken: "acc", RefreshToken: "ref", DriveID: lo.ToPtr("mobile-drive")}, res.Unwrap())
}

func TestAuthorizerFailures(t *testing.T) {
	t.Parallel()

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		api := &fakeLoginAPI{statuses: []scan.QRCodeStatus{{State: scan.QRCodeExpired}}}
		_, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(5*time.Second, true), zerolog.Nop())
		require.NoError(t, err)
		require.ErrorIs(t, waitResult(t, wait).Err(), scan.ErrQRCodeExpired)
	})

	t.Run("missing_query", func(t *testing.T) {
		t.Parallel()
		api := &fakeLoginAPI{
			statuses: []scan.QRCodeStatus{confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref"))},
			gotos:    []model.GotoResponse{model.NewGotoResponse("https://www.aliyundrive.com/sign/callback")},
		}
		_, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(5*time.Second, true), zerolog.Nop())
		require.NoError(t, err)
		require.ErrorIs(t, waitResult(t, wait).Err(), model.ErrMissingQuery)
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()
		api := &fakeLoginAPI{statuses: []scan.QRCodeStatus{confirmedStatus(lo.ToPtr("stale"), lo.ToPtr("ref"))}}
		_, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(5*time.Second, true), zerolog.Nop())
		require.NoError(t, err)
		require.ErrorIs(t, waitResult(t, wait).Err(), scan.ErrUnauthorized)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		api := &fakeLoginAPI{statuses: []scan.QRCodeStatus{{State: scan.QRCodeNew}}}
		_, wait, err := scan.NewAuthorizer(t.Context(), api, testConfig(50*time.Millisecond, true), zerolog.Nop())
		require.NoError(t, err)
		require.ErrorIs(t, waitResult(t, wait).Err(), scan.ErrAuthWaitTimeout)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		api := &fakeLoginAPI{statuses: []scan.QRCodeStatus{{State: scan.QRCodeNew}}}
		_, wait, err := scan.NewAuthorizer(ctx, api, testConfig(5*time.Second, true), zerolog.Nop())
		require.NoError(t, err)
		cancel()
		require.ErrorIs(t, waitResult(t, wait).Err(), context.Canceled)
	})
}

type panickingLoginAPI struct {
	fakeLoginAPI
}

func (*panickingLoginAPI) QueryQRCode(context.Context, *scan.QRCode) (*scan.QRCodeStatus, error) {
	return &scan.QRCodeStatus{State: "BOGUS"}, nil
}

func TestAuthorizerRecoversPanic(t *testing.T) {
	t.Parallel()

	_, wait, err := scan.NewAuthorizer(t.Context(), &panickingLoginAPI{}, testConfig(5*time.Second, true), zerolog.Nop())
	require.NoError(t, err)
	res := waitResult(t, wait)
	require.Error(t, res.Err())
	assert.True(t, errutil.IsFlaw(res.Err()))
}
