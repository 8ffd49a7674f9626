package pricing

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a backoff allows no attempt.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoQuote is returned by a Quoter that has no price for a part.
	ErrNoQuote = errors.New("no quote available")

	// ErrQuoterRequired is returned when a quoter is not provided.
	ErrQuoterRequired = errors.New("quoter required")

	// ErrInvalidPriceList indicates a malformed price list.
	ErrInvalidPriceList = errors.New("invalid price list")
)
