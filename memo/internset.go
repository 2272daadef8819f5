// Copyright 2024 The CascadeQL Authors.
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

package memo

import "github.com/cascadeql/memo/abt"

// internSet is an order-preserving deduplicated set of abt.Node values
// (SPEC_FULL.md §4.1): a dense vector gives stable, insertion-ordered
// indices for deterministic replay, and a fingerprint-bucketed index
// gives near-O(1) lookup despite Node not being a native Go map key.
type internSet struct {
	nodes   []abt.Node
	buckets map[uint64][]int
}

func newInternSet() *internSet {
	return &internSet{buckets: make(map[uint64][]int)}
}

// find returns the index of a structurally equal node, if any.
func (s *internSet) find(n abt.Node) (int, bool) {
	for _, idx := range s.buckets[n.Fingerprint()] {
		if s.nodes[idx].Equal(n) {
			return idx, true
		}
	}
	return 0, false
}

// emplaceBack appends n, unless an equal node already exists and force is
// false, in which case the existing index is returned with inserted=false.
// When force is true, n is always appended as a new entry, even if an
// equal node is already present (used by forced-distinct insertion,
// SPEC_FULL.md §4.5).
func (s *internSet) emplaceBack(n abt.Node, force bool) (index int, inserted bool) {
	if !force {
		if idx, ok := s.find(n); ok {
			return idx, false
		}
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, n)
	fp := n.Fingerprint()
	s.buckets[fp] = append(s.buckets[fp], idx)
	return idx, true
}

// at returns the node at index, which must be < len.
func (s *internSet) at(index int) abt.Node {
	return s.nodes[index]
}

func (s *internSet) len() int {
	return len(s.nodes)
}

func (s *internSet) clear() {
	s.nodes = nil
	s.buckets = make(map[uint64][]int)
}
