package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// VocabularyRepository implements storage.VocabularyRepository for BadgerDB.
type VocabularyRepository struct {
	repo
}

var _ storage.VocabularyRepository = (*VocabularyRepository)(nil)

// NewVocabularyRepository creates a new VocabularyRepository.
func NewVocabularyRepository(backend *Backend) (*VocabularyRepository, error) {
	return &VocabularyRepository{repo{backend: backend}}, nil
}

// ListTerms returns the terms of one kind, or all terms when kind is zero.
func (r *VocabularyRepository) ListTerms(ctx context.Context, kind core.TermKind) ([]core.Term, error) {
	var terms []core.Term
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		terms, err = readAllTerms(tx, kind)
		return err
	}, false)
	return terms, err
}

// FindTerm finds a term by its kind and token.
func (r *VocabularyRepository) FindTerm(ctx context.Context, kind core.TermKind, token string) (*core.Term, error) {
	var result *core.Term
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Look up ID from tuple index
		item, err := tx.Get(makeTermTupleKey(kind, token))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var termID core.ID
		err = item.Value(func(val []byte) error {
			termID, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readTerm(tx, makeTermKey(termID))
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
