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


// Package catalog builds the immutable part catalog from normalized records.
//
// Build assigns each record an identity key derived from its label, drops
// records with no identity or an invalid category, collapses duplicates into
// the earliest record, parses numeric fields permissively and interns every
// property, interface and feature token once. Problems are reported as
// structured diagnostics on the build Report; a build never aborts because of
// one bad record.
//
// A Catalog has no mutating methods. Accessors return copies, and token sets
// are immutable, so concurrent readers need no locking.
package catalog
