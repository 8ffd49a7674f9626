package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// PartRepository implements storage.PartRepository for BadgerDB.
type PartRepository struct {
	repo
}

var _ storage.PartRepository = (*PartRepository)(nil)

// NewPartRepository creates a new PartRepository.
func NewPartRepository(backend *Backend) (*PartRepository, error) {
	return &PartRepository{repo{backend: backend}}, nil
}

// GetPart retrieves a single part by identity key.
func (r *PartRepository) GetPart(ctx context.Context, key string) (*core.Part, error) {
	var result *core.Part
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readPart(tx, makePartKey(key))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListParts returns every part ordered by identity key.
func (r *PartRepository) ListParts(ctx context.Context) ([]core.Part, error) {
	var parts []core.Part
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		parts, err = readAllParts(tx)
		return err
	}, false)
	return parts, err
}

// FindPartsByCategory returns the parts in a category using the category index.
func (r *PartRepository) FindPartsByCategory(ctx context.Context, category core.Category) ([]core.Part, error) {
	if !category.IsValid() {
		return nil, storage.ErrInvalidQuery
	}

	var parts []core.Part
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialPartCategoryKey(category)
		var keys []string
		err := scanPrefix(tx, prefix, func(item *badger.Item) error {
			keys = append(keys, string(bytes.TrimPrefix(item.Key(), prefix)))
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range keys {
			part, err := readPart(tx, makePartKey(key))
			if err != nil {
				return err
			}
			// Index entries are written with their part; a gap means the
			// snapshot was written by something else.
			if part == nil {
				r.backend.logger.Warn("category index points at missing part", "key", key)
				continue
			}
			parts = append(parts, *part)
		}
		return nil
	}, false)
	return parts, err
}
