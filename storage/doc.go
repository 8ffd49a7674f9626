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


// Package storage provides the storage abstraction layer for partkb.
//
// A catalog build is persisted as a Snapshot: the parts, the vocabulary
// terms, the build record and the state of every source read. Saving a
// snapshot replaces the previous catalog entirely; build records accumulate
// as history.
//
// Writes go through SnapshotStore. The read-side repositories serve lookups
// without restoring a whole catalog:
//
//   - PartRepository: parts by key or category
//   - VocabularyRepository: property, interface and feature terms
//   - BuildRepository: build history
//   - SourceStateRepository: digests of the sources behind the current build
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
