package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrInvalidMaxDepth     = errors.New("crawl.max_depth must be >= 0")
	ErrInvalidMaxPages     = errors.New("crawl.max_pages must be >= 0")
	ErrInvalidMaxSnapshots = errors.New("wayback.max_snapshots must be >= 0")
	ErrInvalidTimeout      = errors.New("crawl.request_timeout must be positive")
	ErrInvalidMaxBodyBytes = errors.New("crawl.max_body_bytes must be positive")
	ErrInvalidSameSite     = errors.New("crawl.same_site must be origin, host or domain")
	ErrInvalidExtensions   = errors.New("crawl.extensions must list at least one extension per category")
	ErrEmptyOutputDir      = errors.New("output.directory must be set")
	ErrInvalidLogging      = errors.New("invalid logging configuration")
)

// ErrConfigNotFound is returned when an explicitly requested file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
