package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers use errors.Is to tell them apart.
var (
	// ErrMissingPlugin is returned when a capability section names no plugin.
	// The error is wrapped with the section name.
	ErrMissingPlugin = errors.New("no plugin configured")

	// ErrInvalidConcurrency is returned when concurrency is negative.
	// Zero means one goroutine per ref.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")

	// ErrInvalidHistoryLimit is returned when history.keep is negative.
	ErrInvalidHistoryLimit = errors.New("invalid history keep: must be non-negative")
)
