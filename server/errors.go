package server

import "errors"

var (
	// ErrSearcherRequired is returned when a server is created without a searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrCatalogRequired is returned when no catalog is given to serve.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrServerRequired is returned when a watcher is created without a server.
	ErrServerRequired = errors.New("server required")

	// ErrRebuildRequired is returned when a watcher is created without a rebuild function.
	ErrRebuildRequired = errors.New("rebuild function required")

	// ErrNoPatterns is returned when a watcher is given no source patterns.
	ErrNoPatterns = errors.New("no source patterns to watch")

	// ErrBadRequest marks a malformed recommendation request.
	ErrBadRequest = errors.New("bad request")
)
