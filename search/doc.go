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


// Package search answers constraint queries against a catalog.
//
// The Searcher narrows the catalog through a fixed sequence of filter stages:
//   - class: the part's category matches the target class
//   - capability: every required property is observed or acted on
//   - interface: the part shares at least one required interface
//   - voltage, budget and currency bounds
//
// Each stage is a no-op when its constraint is unset, so adding a constraint
// never grows the result. How a part with no data for a dimension is treated
// is set per dimension by a Policy.
//
// Matches are ranked by price ascending with unpriced parts last, then by
// label and identity key, which gives a total order.
package search
