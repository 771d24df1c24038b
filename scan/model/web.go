package model

// WebLoginResponse is returned when an authorization code is exchanged for
// tokens. Tokens are absent while the account still needs linking or
// verification.
type WebLoginResponse struct {
	DefaultSboxDriveID *string   `json:"default_sbox_drive_id"`
	Role               *string   `json:"role"`
	UserName           *string   `json:"user_name"`
	NeedLink           bool      `json:"need_link"`
	ExpireTime         *string   `json:"expire_time"`
	PinSetup           bool      `json:"pin_setup"`
	NeedRpVerify       bool      `json:"need_rp_verify"`
	Avatar             *string   `json:"avatar"`
	UserData           *UserData `json:"user_data"`
	TokenType          *string   `json:"token_type"`
	Access             *string   `json:"access_token"`
	DefaultDriveID     *string   `json:"default_drive_id"`
	DomainID           *string   `json:"domain_id"`
	Refresh            *string   `json:"refresh_token"`
	IsFirstLogin       bool      `json:"is_first_login"`
	UserID             *string   `json:"user_id"`
	NickName           *string   `json:"nick_name"`
	State              *string   `json:"state"`
	ExpiresIn          int64     `json:"expires_in"`
	Status             *string   `json:"status"`
}

func (r WebLoginResponse) AccessToken() (string, bool) {
	return optional(r.Access)
}

func (r WebLoginResponse) RefreshToken() (string, bool) {
	return optional(r.Refresh)
}

func (r WebLoginResponse) DriveID() (string, bool) {
	return optional(r.DefaultDriveID)
}

type UserData struct {
	DingDingRobotURL *string `json:"DingDingRobotUrl"`
	FeedBackSwitch   bool    `json:"FeedBackSwitch"`
	FollowingDesc    *string `json:"FollowingDesc"`
}
