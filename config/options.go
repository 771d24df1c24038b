package config

import "time"

const (
	DefaultPassportBaseURL = "https://passport.aliyundrive.com"
	DefaultAuthBaseURL     = "https://auth.aliyundrive.com"
	DefaultAPIBaseURL      = "https://api.aliyundrive.com"
)

var (
	DefaultPollInterval   = 3 * time.Second
	DefaultLoginTimeout   = 3 * time.Minute
	DefaultRequestTimeout = 5 * time.Second
)
