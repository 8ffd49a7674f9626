package config

import "errors"

var (
	// ErrInvalidConfig is returned when a loaded configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrReadConfig is returned when a configuration file cannot be read or parsed.
	ErrReadConfig = errors.New("failed to read configuration")
)
