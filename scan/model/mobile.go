package model

// MobileLoginResponse is the login result embedded in a confirmed QR code
// status. The nested result and its tokens are both optional.
type MobileLoginResponse struct {
	PdsLoginResult *PdsLoginResult `json:"pds_login_result"`
}

func (r MobileLoginResponse) AccessToken() (string, bool) {
	if nil == r.PdsLoginResult {
		return "", false
	}
	return optional(r.PdsLoginResult.AccessToken)
}

func (r MobileLoginResponse) RefreshToken() (string, bool) {
	if nil == r.PdsLoginResult {
		return "", false
	}
	return optional(r.PdsLoginResult.RefreshToken)
}

type PdsLoginResult struct {
	Role           *string   `json:"role"`
	UserData       *UserData `json:"userData"`
	IsFirstLogin   bool      `json:"isFirstLogin"`
	NeedLink       bool      `json:"needLink"`
	LoginType      *string   `json:"loginType"`
	NickName       *string   `json:"nickName"`
	NeedRpVerify   bool      `json:"needRpVerify"`
	Avatar         *string   `json:"avatar"`
	AccessToken    *string   `json:"accessToken"`
	UserName       *string   `json:"userName"`
	UserID         *string   `json:"userId"`
	DefaultDriveID *string   `json:"defaultDriveId"`
	ExpiresIn      int64     `json:"expiresIn"`
	ExpireTime     *string   `json:"expireTime"`
	RequestID      *string   `json:"requestId"`
	DataPinSetup   bool      `json:"dataPinSetup"`
	State          *string   `json:"state"`
	TokenType      *string   `json:"tokenType"`
	DataPinSaved   bool      `json:"dataPinSaved"`
	RefreshToken   *string   `json:"refreshToken"`
	Status         *string   `json:"status"`
}
