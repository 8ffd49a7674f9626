package storage

import (
	"context"

	"github.com/poiesic/partkb/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// Snapshot is the persisted form of one catalog build.
type Snapshot struct {
	Parts   []core.Part
	Terms   []core.Term
	Build   core.BuildRecord
	Sources []core.SourceState
}

// SnapshotStore persists whole catalog builds.
type SnapshotStore interface {
	Repository

	// SaveSnapshot replaces the stored parts and terms with those in snap,
	// records the source states and appends snap.Build to the build history.
	// The replacement is atomic: readers see the old or the new catalog,
	// never a mix.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadSnapshot returns the current catalog with the latest build record.
	// Returns ErrNotFound if nothing has been built yet.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// PartRepository reads persisted parts.
type PartRepository interface {
	Repository

	// GetPart retrieves a part by identity key.
	// Returns ErrNotFound if the part doesn't exist.
	GetPart(ctx context.Context, key string) (*core.Part, error)

	// ListParts returns every part ordered by identity key.
	ListParts(ctx context.Context) ([]core.Part, error)

	// FindPartsByCategory returns the parts in a category ordered by key.
	FindPartsByCategory(ctx context.Context, category core.Category) ([]core.Part, error)
}

// VocabularyRepository reads persisted vocabulary terms.
type VocabularyRepository interface {
	Repository

	// ListTerms returns the terms of one kind, or all terms when kind is
	// zero, ordered by kind then token.
	ListTerms(ctx context.Context, kind core.TermKind) ([]core.Term, error)

	// FindTerm finds a term by kind and token.
	// Returns ErrNotFound if no matching term exists.
	FindTerm(ctx context.Context, kind core.TermKind, token string) (*core.Term, error)
}

// BuildRepository reads the build history.
type BuildRepository interface {
	Repository

	// LatestBuild returns the most recent build.
	// Returns nil, nil if there is no build yet.
	LatestBuild(ctx context.Context) (*core.BuildRecord, error)

	// ListBuilds returns up to limit builds, most recent first.
	ListBuilds(ctx context.Context, limit int) ([]*core.BuildRecord, error)
}

// SourceStateRepository reads the recorded state of ingested sources.
type SourceStateRepository interface {
	Repository

	// ListSourceStates returns the state of every source read by the
	// current snapshot, ordered by path.
	ListSourceStates(ctx context.Context) ([]core.SourceState, error)
}
