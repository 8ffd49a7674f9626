package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// SourceStateRepository implements storage.SourceStateRepository for BadgerDB.
type SourceStateRepository struct {
	repo
}

var _ storage.SourceStateRepository = (*SourceStateRepository)(nil)

// NewSourceStateRepository creates a new SourceStateRepository.
func NewSourceStateRepository(backend *Backend) *SourceStateRepository {
	return &SourceStateRepository{repo{backend: backend}}
}

// ListSourceStates returns the state of every source behind the current snapshot.
func (r *SourceStateRepository) ListSourceStates(ctx context.Context) ([]core.SourceState, error) {
	var states []core.SourceState
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		states, err = readSourceStates(tx)
		return err
	}, false)
	return states, err
}
