package scan

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/xeptore/aliscan/scan/model"
)

var (
	ErrQRCodeExpired  = errors.New("qr code expired")
	ErrQRCodeCanceled = errors.New("qr code login canceled")
)

type State int

const (
	StatePending State = iota
	StateCodeObtained
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCodeObtained:
		return "code_obtained"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Credentials struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	DriveID      *string `json:"drive_id,omitempty"`
}

// Machine tracks a single login session from observations of the login
// responses. It performs no I/O and is not safe for concurrent use.
type Machine struct {
	exchangeCode bool
	state        State
	mobileToken  *string
	code         string
	creds        *Credentials
	err          error
}

// NewMachine returns a pending machine. With exchangeCode unset, the tokens of
// a confirmed QR code login authenticate the session directly, bypassing the
// redirect and code exchange.
func NewMachine(exchangeCode bool) *Machine {
	return &Machine{
		exchangeCode: exchangeCode,
		state:        StatePending,
		mobileToken:  nil,
		code:         "",
		creds:        nil,
		err:          nil,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Done() bool {
	return m.state == StateAuthenticated || m.state == StateFailed
}

// Err is the failure reason of a failed machine.
func (m *Machine) Err() error {
	return m.err
}

func (m *Machine) Credentials() *Credentials {
	return m.creds
}

// Code is the authorization code obtained from the redirect.
func (m *Machine) Code() string {
	return m.code
}

// MobileAccessToken is the confirmed QR code login access token waiting to
// be traded for a redirect.
func (m *Machine) MobileAccessToken() (string, bool) {
	if nil == m.mobileToken {
		return "", false
	}
	return *m.mobileToken, true
}

func (m *Machine) ObserveQRCodeStatus(status QRCodeStatus) State {
	m.expect(StatePending)

	switch status.State {
	case QRCodeNew, QRCodeScanned:
	case QRCodeExpired:
		m.fail(ErrQRCodeExpired)
	case QRCodeCanceled:
		m.fail(ErrQRCodeCanceled)
	case QRCodeConfirmed:
		if nil == status.Login || !model.HasTokens(status.Login) {
			break
		}
		accessToken, _ := status.Login.AccessToken()
		refreshToken, _ := status.Login.RefreshToken()
		if m.exchangeCode {
			m.mobileToken = lo.ToPtr(accessToken)
			break
		}
		m.authenticate(Credentials{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			DriveID:      status.Login.PdsLoginResult.DefaultDriveID,
		})
	default:
		panic(fmt.Sprintf("unexpected qr code state: %q", status.State))
	}
	return m.state
}

// ObserveGoto extracts the authorization code from res. Redirects which do
// not carry a code yet keep the machine pending; a malformed redirect fails it.
func (m *Machine) ObserveGoto(res model.GotoResponse) State {
	m.expect(StatePending)

	code, err := res.ExtractAuthorizationCode()
	switch {
	case nil == err:
		m.code = code
		m.state = StateCodeObtained
	case model.IsPending(err):
	default:
		m.fail(err)
	}
	return m.state
}

func (m *Machine) ObserveWebLogin(res model.WebLoginResponse) State {
	m.expect(StateCodeObtained)

	if !model.HasTokens(res) {
		return m.state
	}
	accessToken, _ := res.AccessToken()
	refreshToken, _ := res.RefreshToken()
	m.authenticate(Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		DriveID:      res.DefaultDriveID,
	})
	return m.state
}

// Fail aborts the session with err unless it is already done.
func (m *Machine) Fail(err error) State {
	if !m.Done() {
		m.fail(err)
	}
	return m.state
}

func (m *Machine) fail(err error) {
	m.state = StateFailed
	m.err = err
}

func (m *Machine) authenticate(creds Credentials) {
	m.state = StateAuthenticated
	m.creds = &creds
}

func (m *Machine) expect(s State) {
	if m.state != s {
		panic(fmt.Sprintf("unexpected observation in %s state, expected %s state", m.state, s))
	}
}
