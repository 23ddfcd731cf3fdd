package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Addr        string // host:port the HTTP server binds to
	ModulesPath string // directory of .hcl manifests and .star scripts

	LogFormat string
	LogLevel  string

	Username      string // the single account's username
	PasswordHash  string // bcrypt hash of the account password; empty selects the dev default
	SessionSecret string // signs the session cookie; empty selects a random per-process secret
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Addr == "" {
		return nil, errors.New("Addr is a required configuration field and cannot be empty")
	}
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}
	if cfg.Username == "" {
		return nil, errors.New("Username cannot be empty")
	}
	return &cfg, nil
}
