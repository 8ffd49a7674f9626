package export

import "errors"

var (
	// ErrUnsupportedFormat is returned for an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrCatalogRequired is returned when no catalog is given to export.
	ErrCatalogRequired = errors.New("catalog required")
)
