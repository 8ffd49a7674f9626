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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedRecord indicates a record lacks a usable identity.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidCategory indicates a category outside the six catalog categories.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrRangeInconsistency indicates a minimum bound greater than its maximum.
	ErrRangeInconsistency = errors.New("range inconsistency")

	// ErrUnknownQueryClass indicates a query target class that maps to no category.
	ErrUnknownQueryClass = errors.New("unknown query class")

	// ErrInvalidPart indicates a Part failed validation.
	ErrInvalidPart = errors.New("invalid part")

	// ErrEmptyKey indicates the identity key of a Part is empty.
	ErrEmptyKey = errors.New("identity key cannot be empty")

	// ErrInvalidTerm indicates a Term failed validation.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrCorruptEncoding indicates serialized data does not decode to a record.
	ErrCorruptEncoding = errors.New("corrupt encoding")
)
