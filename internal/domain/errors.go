package domain

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrConfigNotFound indicates the config file does not exist
	ErrConfigNotFound = errors.New("config file not found")

	// ErrExchangeNotFound indicates the requested exchange is not stored
	ErrExchangeNotFound = errors.New("exchange not found")
)
