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


package catalog

// unionFind is a disjoint-set over record positions with path compression.
// Unions always attach the larger root under the smaller one, so the root of
// every set is its earliest record.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// find returns the representative of x's set.
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// union merges the sets containing x and y.
func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	switch {
	case rx == ry:
		return
	case rx < ry:
		uf.parent[ry] = rx
	default:
		uf.parent[rx] = ry
	}
}

// components groups members by representative. Members are in ascending order.
func (uf *unionFind) components() map[int][]int {
	groups := make(map[int][]int)
	for x := range uf.parent {
		root := uf.find(x)
		groups[root] = append(groups[root], x)
	}
	return groups
}
