package ingestion

import "errors"

var (
	// ErrSnapshotStoreRequired is returned when a snapshot store is not provided.
	ErrSnapshotStoreRequired = errors.New("snapshot store required")

	// ErrCanonicalizerRequired is returned when a canonicalizer is not provided.
	ErrCanonicalizerRequired = errors.New("canonicalizer required")

	// ErrNoSources is returned when a build is requested without any source.
	ErrNoSources = errors.New("no sources")

	// ErrBadPattern indicates a malformed source glob pattern.
	ErrBadPattern = errors.New("invalid source pattern")

	// ErrReadSource wraps failures reading or parsing a tabular source.
	ErrReadSource = errors.New("failed to read source")
)
