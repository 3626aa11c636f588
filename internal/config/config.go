package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat          string        `mapstructure:"log_format" yaml:"log_format"`
	Locale             string        `mapstructure:"locale" yaml:"locale"`
	ReplyDelay         time.Duration `mapstructure:"reply_delay" yaml:"reply_delay"`
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout" yaml:"session_idle_timeout"`
	UnwatchedTimeout   time.Duration `mapstructure:"session_unwatched_timeout" yaml:"session_unwatched_timeout"`
	WSRateLimit        int           `mapstructure:"ws_rate_limit" yaml:"ws_rate_limit"`
	PolicyPath         string        `mapstructure:"policy_path" yaml:"policy_path"`
	CORSOrigins        []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	Kakao              KakaoConfig   `mapstructure:"kakao" yaml:"kakao"`
}

// KakaoConfig describes the OAuth authorize redirect behind the login button.
type KakaoConfig struct {
	AuthorizeURL string `mapstructure:"authorize_url" yaml:"authorize_url"`
	RestAPIKey   string `mapstructure:"rest_api_key" yaml:"rest_api_key"`
	RedirectURI  string `mapstructure:"redirect_uri" yaml:"redirect_uri"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		Locale:             "ko",
		ReplyDelay:         1500 * time.Millisecond,
		SessionIdleTimeout: 30 * time.Minute,
		UnwatchedTimeout:   2 * time.Minute,
		WSRateLimit:        30,
		PolicyPath:         "policy.yaml",
		CORSOrigins:        []string{"http://localhost"},
		Kakao: KakaoConfig{
			AuthorizeURL: "https://kauth.kakao.com/oauth/authorize",
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Locale != "" {
		c.Locale = other.Locale
	}
	if other.ReplyDelay != 0 {
		c.ReplyDelay = other.ReplyDelay
	}
	if other.SessionIdleTimeout != 0 {
		c.SessionIdleTimeout = other.SessionIdleTimeout
	}
	if other.UnwatchedTimeout != 0 {
		c.UnwatchedTimeout = other.UnwatchedTimeout
	}
	if other.WSRateLimit != 0 {
		c.WSRateLimit = other.WSRateLimit
	}
	if other.PolicyPath != "" {
		c.PolicyPath = other.PolicyPath
	}
	if len(other.CORSOrigins) > 0 {
		c.CORSOrigins = other.CORSOrigins
	}
	if other.Kakao.AuthorizeURL != "" {
		c.Kakao.AuthorizeURL = other.Kakao.AuthorizeURL
	}
	if other.Kakao.RestAPIKey != "" {
		c.Kakao.RestAPIKey = other.Kakao.RestAPIKey
	}
	if other.Kakao.RedirectURI != "" {
		c.Kakao.RedirectURI = other.Kakao.RedirectURI
	}
}
