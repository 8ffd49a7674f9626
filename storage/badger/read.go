package badger

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// readPart reads a part from the transaction.
// Returns nil, nil when the key is absent.
func readPart(tx *badger.Txn, key []byte) (*core.Part, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var part *core.Part
	err = item.Value(func(val []byte) error {
		var err error
		part, err = storage.UnmarshalPart(val)
		return err
	})
	return part, err
}

// readTerm reads a term from the transaction.
// Returns nil, nil when the key is absent.
func readTerm(tx *badger.Txn, key []byte) (*core.Term, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var term *core.Term
	err = item.Value(func(val []byte) error {
		var err error
		term, err = storage.UnmarshalTerm(val)
		return err
	})
	return term, err
}

// readAllParts reads every part in key order.
func readAllParts(tx *badger.Txn) ([]core.Part, error) {
	var parts []core.Part
	err := scanPrefix(tx, prefixOf(partPrefix), func(item *badger.Item) error {
		return item.Value(func(val []byte) error {
			part, err := storage.UnmarshalPart(val)
			if err != nil {
				return err
			}
			parts = append(parts, *part)
			return nil
		})
	})
	return parts, err
}

// readAllTerms reads the terms of one kind, or all when kind is zero,
// ordered by kind then token.
func readAllTerms(tx *badger.Txn, kind core.TermKind) ([]core.Term, error) {
	var terms []core.Term
	err := scanPrefix(tx, prefixOf(termPrefix), func(item *badger.Item) error {
		return item.Value(func(val []byte) error {
			term, err := storage.UnmarshalTerm(val)
			if err != nil {
				return err
			}
			if kind == 0 || term.Kind == kind {
				terms = append(terms, *term)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(terms, func(a, b core.Term) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.Token, b.Token)
	})
	return terms, nil
}

// readBuilds reads up to limit build records, most recent first.
// A limit of zero or less reads them all.
func readBuilds(tx *badger.Txn, limit int) ([]*core.BuildRecord, error) {
	prefix := prefixOf(buildPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = true
	iter := tx.NewIterator(opts)
	defer iter.Close()

	// Reverse iteration starts from the last key at or before the seek key.
	seek := append(slices.Clone(prefix), 0xFF)
	var builds []*core.BuildRecord
	for iter.Seek(seek); iter.Valid(); iter.Next() {
		if limit > 0 && len(builds) >= limit {
			break
		}
		err := iter.Item().Value(func(val []byte) error {
			rec, err := storage.UnmarshalBuildRecord(val)
			if err != nil {
				return err
			}
			builds = append(builds, rec)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return builds, nil
}

// readSourceStates reads every source state in path order.
func readSourceStates(tx *badger.Txn) ([]core.SourceState, error) {
	var states []core.SourceState
	err := scanPrefix(tx, prefixOf(sourcePrefix), func(item *badger.Item) error {
		return item.Value(func(val []byte) error {
			state, err := storage.UnmarshalSourceState(val)
			if err != nil {
				return err
			}
			states = append(states, *state)
			return nil
		})
	})
	return states, err
}
