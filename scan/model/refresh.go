package model

// RefreshTokenResponse is a fully authenticated token response. All fields
// are mandatory; see DecodeRefreshTokenResponse.
type RefreshTokenResponse struct {
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	ExpiresIn      uint64 `json:"expires_in"`
	TokenType      string `json:"token_type"`
	UserID         string `json:"user_id"`
	NickName       string `json:"nick_name"`
	DefaultDriveID string `json:"default_drive_id"`
}
