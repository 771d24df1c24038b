package scan_test

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xeptore/aliscan/errutil"
	"github.com/xeptore/aliscan/scan"
	"github.com/xeptore/aliscan/scan/model"
)

func confirmedStatus(accessToken, refreshToken *string) scan.QRCodeStatus {
	return scan.QRCodeStatus{
		State: scan.QRCodeConfirmed,
		Login: &model.MobileLoginResponse{
			PdsLoginResult: &model.PdsLoginResult{
				AccessToken:    accessToken,
				RefreshToken:   refreshToken,
				DefaultDriveID: lo.ToPtr("mobile-drive"),
			},
		},
	}
}

func TestMachine(t *testing.T) {
	t.Parallel()

	t.Run("pending_until_confirmed", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeNew}))
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeScanned}))
		_, ok := m.MobileAccessToken()
		assert.False(t, ok)
	})

	t.Run("confirmed_without_tokens_stays_pending", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeConfirmed}))
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeConfirmed, Login: &model.MobileLoginResponse{}}))
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(confirmedStatus(lo.ToPtr("acc"), nil)))
		_, ok := m.MobileAccessToken()
		assert.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Equal(t, scan.StateFailed, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeExpired}))
		require.ErrorIs(t, m.Err(), scan.ErrQRCodeExpired)
		assert.True(t, m.Done())
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Equal(t, scan.StateFailed, m.ObserveQRCodeStatus(scan.QRCodeStatus{State: scan.QRCodeCanceled}))
		require.ErrorIs(t, m.Err(), scan.ErrQRCodeCanceled)
	})

	t.Run("direct_authentication", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(false)
		assert.Equal(t, scan.StateAuthenticated, m.ObserveQRCodeStatus(confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref"))))
		assert.Equal(t, &scan.Credentials{AccessToken: "acc", RefreshToken: "ref", DriveID: lo.ToPtr("mobile-drive")}, m.Credentials())
		require.NoError(t, m.Err())
	})

	t.Run("code_exchange", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Equal(t, scan.StatePending, m.ObserveQRCodeStatus(confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref"))))
		token, ok := m.MobileAccessToken()
		require.True(t, ok)
		assert.Equal(t, "acc", token)

		assert.Equal(t, scan.StatePending, m.ObserveGoto(model.GotoResponse{}))
		assert.Equal(t, scan.StatePending, m.ObserveGoto(model.NewGotoResponse("https://example.com/cb?state=x")))
		assert.Equal(t, scan.StateCodeObtained, m.ObserveGoto(model.NewGotoResponse("https://example.com/cb?code=ABC123")))
		assert.Equal(t, "ABC123", m.Code())

		assert.Equal(t, scan.StateCodeObtained, m.ObserveWebLogin(model.WebLoginResponse{NeedLink: true}))
		assert.Nil(t, m.Credentials())

		state := m.ObserveWebLogin(model.WebLoginResponse{Access: lo.ToPtr("web-acc"), Refresh: lo.ToPtr("web-ref"), DefaultDriveID: lo.ToPtr("d1")})
		assert.Equal(t, scan.StateAuthenticated, state)
		assert.Equal(t, &scan.Credentials{AccessToken: "web-acc", RefreshToken: "web-ref", DriveID: lo.ToPtr("d1")}, m.Credentials())
	})

	t.Run("malformed_redirect_fails", func(t *testing.T) {
		t.Parallel()
		for _, target := range []string{"https://example.com/cb", "://example.com/cb?code=x"} {
			m := scan.NewMachine(true)
			m.ObserveQRCodeStatus(confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref")))
			assert.Equal(t, scan.StateFailed, m.ObserveGoto(model.NewGotoResponse(target)))
			_, isAny := errutil.IsAny(m.Err(), model.ErrMissingQuery, model.ErrInvalidURL)
			assert.True(t, isAny, "target: %q", target)
		}
	})

	t.Run("fail_is_final", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(false)
		m.ObserveQRCodeStatus(confirmedStatus(lo.ToPtr("acc"), lo.ToPtr("ref")))
		assert.Equal(t, scan.StateAuthenticated, m.Fail(errors.New("late failure")))
		require.NoError(t, m.Err())
	})

	t.Run("unexpected_observation_panics", func(t *testing.T) {
		t.Parallel()
		m := scan.NewMachine(true)
		assert.Panics(t, func() { m.ObserveWebLogin(model.WebLoginResponse{}) })
	})
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pending", scan.StatePending.String())
	assert.Equal(t, "code_obtained", scan.StateCodeObtained.String())
	assert.Equal(t, "authenticated", scan.StateAuthenticated.String())
	assert.Equal(t, "failed", scan.StateFailed.String())
	assert.Equal(t, "State(42)", scan.State(42).String())
}
