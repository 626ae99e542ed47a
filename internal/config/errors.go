package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates an unknown output format name was provided.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidFFprobe indicates the ffprobe binary is not configured.
	ErrInvalidFFprobe = errors.New("ffprobe configuration invalid")

	// ErrInvalidTimeout indicates a probe timeout outside the valid range.
	ErrInvalidTimeout = errors.New("timeout out of range")

	// ErrInvalidWorkers indicates a worker count outside the valid range.
	ErrInvalidWorkers = errors.New("worker count out of range")

	// ErrInvalidCache indicates the cache is enabled without a directory.
	ErrInvalidCache = errors.New("cache configuration invalid")
)
