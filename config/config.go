package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	PollInterval   time.Duration `json:"poll_interval"   yaml:"poll_interval"`
	LoginTimeout   time.Duration `json:"login_timeout"   yaml:"login_timeout"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	ExchangeCode   bool          `json:"exchange_code"   yaml:"exchange_code"`
	Endpoints      Endpoints     `json:"endpoints"       yaml:"endpoints"`
}

type Endpoints struct {
	PassportBaseURL string `json:"passport_base_url" yaml:"passport_base_url"`
	AuthBaseURL     string `json:"auth_base_url"     yaml:"auth_base_url"`
	APIBaseURL      string `json:"api_base_url"      yaml:"api_base_url"`
}

func Default() Config {
	return Config{
		PollInterval:   DefaultPollInterval,
		LoginTimeout:   DefaultLoginTimeout,
		RequestTimeout: DefaultRequestTimeout,
		ExchangeCode:   true,
		Endpoints: Endpoints{
			PassportBaseURL: DefaultPassportBaseURL,
			AuthBaseURL:     DefaultAuthBaseURL,
			APIBaseURL:      DefaultAPIBaseURL,
		},
	}
}

func (cfg *Config) validate() error {
	if cfg.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}

	if cfg.LoginTimeout <= 0 {
		return errors.New("login timeout must be positive")
	}

	if cfg.LoginTimeout < cfg.PollInterval {
		return errors.New("login timeout is shorter than poll interval")
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	for name, v := range map[string]string{
		"passport base url": cfg.Endpoints.PassportBaseURL,
		"auth base url":     cfg.Endpoints.AuthBaseURL,
		"api base url":      cfg.Endpoints.APIBaseURL,
	} {
		u, err := url.Parse(v)
		if nil != err {
			return fmt.Errorf("%s is invalid: %v", name, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url", name)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("%s must use https scheme, got %q", name, u.Scheme)
		}
	}

	return nil
}

func FromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if nil != err {
		return nil, fmt.Errorf("failed to read config file %q: %v", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); nil != err {
		return nil, fmt.Errorf("failed to unmarshal config file %q: %v", filePath, err)
	}

	if err := cfg.validate(); nil != err {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	return &cfg, nil
}

func FromString(data string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(data), &cfg); nil != err {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := cfg.validate(); nil != err {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	return &cfg, nil
}
