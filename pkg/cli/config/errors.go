package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidStatus   = goerr.New("invalid ticket status")
	ErrDuplicateID     = goerr.New("duplicate ID")
	ErrMissingID       = goerr.New("ID is required")
	ErrMissingName     = goerr.New("name is required")
	ErrMissingPassword = goerr.New("password hash is required")
	ErrInvalidSecret   = goerr.New("auth secret must be at least 32 bytes")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	StatusIDKey   = "status_id"
	UserIDKey     = "user_id"
)
