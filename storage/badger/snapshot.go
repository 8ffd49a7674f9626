// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/storage"
)

// SnapshotRepository implements storage.SnapshotStore for BadgerDB.
type SnapshotRepository struct {
	repo
}

var _ storage.SnapshotStore = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(backend *Backend) (*SnapshotRepository, error) {
	return &SnapshotRepository{repo{backend: backend}}, nil
}

// SaveSnapshot replaces the stored catalog in a single transaction.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		return storage.ErrSnapshotRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range snap.Parts {
		if err := core.ValidatePart(&snap.Parts[i]); err != nil {
			return err
		}
	}
	for i := range snap.Terms {
		if err := core.ValidateTerm(&snap.Terms[i]); err != nil {
			return err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range []string{partPrefix, partCategoryPrefix, termPrefix, termTuplePrefix, sourcePrefix} {
			if err := deletePrefix(tx, prefixOf(prefix)); err != nil {
				return err
			}
		}

		for i := range snap.Parts {
			part := &snap.Parts[i]
			if err := tx.Set(makePartKey(part.Key), storage.MarshalPart(part)); err != nil {
				return err
			}
			if err := tx.Set(makePartCategoryKey(part.Category, part.Key), []byte{}); err != nil {
				return err
			}
		}

		for i := range snap.Terms {
			term := &snap.Terms[i]
			if term.Id == 0 {
				term.Id = core.IDFromContent(term.Tuple())
			}
			if err := tx.Set(makeTermKey(term.Id), storage.MarshalTerm(term)); err != nil {
				return err
			}
			if err := tx.Set(makeTermTupleKey(term.Kind, term.Token), storage.MarshalID(term.Id)); err != nil {
				return err
			}
		}

		for i := range snap.Sources {
			state := &snap.Sources[i]
			if err := tx.Set(makeSourceKey(state.Path), storage.MarshalSourceState(state)); err != nil {
				return err
			}
		}

		build := &snap.Build
		if err := tx.Set(makeBuildKey(build.BuiltAt, build.RunID), storage.MarshalBuildRecord(build)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Build.RunID, err)
	}

	r.backend.logger.Debug("snapshot saved",
		"run", snap.Build.RunID, "parts", len(snap.Parts), "terms", len(snap.Terms))
	return nil
}

// LoadSnapshot reads the current catalog and its latest build record.
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &storage.Snapshot{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		builds, err := readBuilds(tx, 1)
		if err != nil {
			return err
		}
		if len(builds) == 0 {
			return storage.ErrNotFound
		}
		snap.Build = *builds[0]

		if snap.Parts, err = readAllParts(tx); err != nil {
			return err
		}
		if snap.Terms, err = readAllTerms(tx, 0); err != nil {
			return err
		}
		snap.Sources, err = readSourceStates(tx)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return snap, nil
}
