package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// BuildRepository implements storage.BuildRepository for BadgerDB.
type BuildRepository struct {
	repo
}

var _ storage.BuildRepository = (*BuildRepository)(nil)

// NewBuildRepository creates a new BuildRepository.
func NewBuildRepository(backend *Backend) (*BuildRepository, error) {
	return &BuildRepository{repo{backend: backend}}, nil
}

// LatestBuild returns the most recent build, or nil, nil if there is none.
func (r *BuildRepository) LatestBuild(ctx context.Context) (*core.BuildRecord, error) {
	builds, err := r.ListBuilds(ctx, 1)
	if err != nil || len(builds) == 0 {
		return nil, err
	}
	return builds[0], nil
}

// ListBuilds returns up to limit builds, most recent first.
func (r *BuildRepository) ListBuilds(ctx context.Context, limit int) ([]*core.BuildRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var builds []*core.BuildRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		builds, err = readBuilds(tx, limit)
		return err
	}, false)
	return builds, err
}
