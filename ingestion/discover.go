package ingestion

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands glob patterns (with ** support) into source paths.
// Paths keep pattern order; a path matched by several patterns appears once,
// at its first position. A pattern that matches nothing is not an error.
func Discover(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, ErrNoSources
	}
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadPattern, pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	return paths, nil
}
