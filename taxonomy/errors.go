package taxonomy

import "errors"

var (
	// ErrEmptyRules is returned when a taxonomy is built without rules.
	ErrEmptyRules = errors.New("taxonomy requires at least one rule")

	// ErrInvalidRule indicates a rule with a bad category, empty kind or no keywords.
	ErrInvalidRule = errors.New("invalid detection rule")

	// ErrInvalidOverride indicates an override entry that cannot be applied.
	ErrInvalidOverride = errors.New("invalid override")
)
