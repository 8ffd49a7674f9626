package badger

import "errors"

// Repositories bundles the repositories sharing one Backend.
type Repositories struct {
	Backend    *Backend
	Snapshots  *SnapshotRepository
	Parts      *PartRepository
	Vocabulary *VocabularyRepository
	Builds     *BuildRepository
	Sources    *SourceStateRepository
}

// NewRepositories creates every repository on backend.
func NewRepositories(backend *Backend) (*Repositories, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}

	snapshots, err := NewSnapshotRepository(backend)
	if err != nil {
		return nil, err
	}
	parts, err := NewPartRepository(backend)
	if err != nil {
		return nil, err
	}
	vocabulary, err := NewVocabularyRepository(backend)
	if err != nil {
		return nil, err
	}
	builds, err := NewBuildRepository(backend)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Backend:    backend,
		Snapshots:  snapshots,
		Parts:      parts,
		Vocabulary: vocabulary,
		Builds:     builds,
		Sources:    NewSourceStateRepository(backend),
	}, nil
}

// Close closes the repositories and then the backend.
func (r *Repositories) Close() error {
	return errors.Join(
		r.Snapshots.Close(),
		r.Parts.Close(),
		r.Vocabulary.Close(),
		r.Builds.Close(),
		r.Sources.Close(),
		r.Backend.Close(),
	)
}
