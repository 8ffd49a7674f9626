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


package storage

import (
	"fmt"

	"github.com/poiesic/partkb/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalPart serializes a Part to bytes.
func MarshalPart(part *core.Part) []byte {
	buf := make([]byte, core.PartMUS.Size(*part))
	core.PartMUS.Marshal(*part, buf)
	return buf
}

// UnmarshalPart deserializes a Part from bytes.
func UnmarshalPart(data []byte) (*core.Part, error) {
	part, _, err := core.PartMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: part: %w", ErrSerializationFailed, err)
	}
	return &part, nil
}

// MarshalTerm serializes a Term to bytes.
func MarshalTerm(term *core.Term) []byte {
	buf := make([]byte, core.TermMUS.Size(*term))
	core.TermMUS.Marshal(*term, buf)
	return buf
}

// UnmarshalTerm deserializes a Term from bytes.
func UnmarshalTerm(data []byte) (*core.Term, error) {
	term, _, err := core.TermMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: term: %w", ErrSerializationFailed, err)
	}
	return &term, nil
}

// MarshalBuildRecord serializes a BuildRecord to bytes.
func MarshalBuildRecord(record *core.BuildRecord) []byte {
	buf := make([]byte, core.BuildRecordMUS.Size(*record))
	core.BuildRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalBuildRecord deserializes a BuildRecord from bytes.
func UnmarshalBuildRecord(data []byte) (*core.BuildRecord, error) {
	record, _, err := core.BuildRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: build record: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalSourceState serializes a SourceState to bytes.
func MarshalSourceState(state *core.SourceState) []byte {
	buf := make([]byte, core.SourceStateMUS.Size(*state))
	core.SourceStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalSourceState deserializes a SourceState from bytes.
func UnmarshalSourceState(data []byte) (*core.SourceState, error) {
	state, _, err := core.SourceStateMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: source state: %w", ErrSerializationFailed, err)
	}
	return &state, nil
}
