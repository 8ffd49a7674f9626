package search

import (
	"fmt"
	"strings"
)

// Missing says how a filter stage treats a part with no data for the
// constrained dimension.
type Missing int

const (
	// MissingExcludes drops parts lacking the data.
	MissingExcludes Missing = iota
	// MissingPasses keeps parts lacking the data.
	MissingPasses
)

func (m Missing) String() string {
	if m == MissingPasses {
		return "pass"
	}
	return "exclude"
}

// ParseMissing reads "pass" or "exclude".
func ParseMissing(s string) (Missing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "include":
		return MissingPasses, nil
	case "exclude":
		return MissingExcludes, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// Policy holds the missing-data behavior of each optional dimension.
type Policy struct {
	Interface Missing
	Voltage   Missing
	Budget    Missing
	Currency  Missing
}

// DefaultPolicy excludes parts with no interfaces when interfaces are
// requested and lets parts without voltage, price or currency through.
func DefaultPolicy() Policy {
	return Policy{
		Interface: MissingExcludes,
		Voltage:   MissingPasses,
		Budget:    MissingPasses,
		Currency:  MissingPasses,
	}
}
