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


package search

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrPartNotFound is returned when a looked-up part does not exist.
	ErrPartNotFound = errors.New("part not found")

	// ErrNotController is returned when interfaces are requested from a part
	// that is not a controller.
	ErrNotController = errors.New("part is not a controller")

	// ErrInvalidPolicy is returned for an unrecognized missing-data policy.
	ErrInvalidPolicy = errors.New("invalid missing-data policy")
)
