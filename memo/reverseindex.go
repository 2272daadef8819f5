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

import (
	"strconv"
	"strings"
)

// childKey encodes an ordered group tuple into a collision-free string
// key. It realizes the "commutative-insensitive combiner" from
// SPEC_FULL.md §4.4: swapping two entries changes the key, so [a,b] and
// [b,a] are tracked as distinct child tuples.
func childKey(groups []GroupId) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(g), 10))
	}
	return b.String()
}

// reverseIndex maintains InputGroupsToNodeIdMap and its inverse
// NodeIdToInputGroupsMap (SPEC_FULL.md §3, §4.4): for every logical node
// with immediate child groups C, the node's id is reachable under C, and
// C is reachable from the node's id. Exploration rules use the forward
// direction to find every node sharing a given set of children (e.g. for
// join reordering); ClearLogicalNodes uses the inverse direction to undo
// a group's entries in bulk.
type reverseIndex struct {
	forward map[string][]NodeId
	inverse map[NodeId][]GroupId
}

func newReverseIndex() *reverseIndex {
	return &reverseIndex{
		forward: make(map[string][]NodeId),
		inverse: make(map[NodeId][]GroupId),
	}
}

// add records that id has immediate child groups.
func (r *reverseIndex) add(id NodeId, children []GroupId) {
	key := childKey(children)
	r.forward[key] = append(r.forward[key], id)
	r.inverse[id] = children
}

// find returns, in insertion order, every NodeId previously recorded
// under exactly this ordered child tuple.
func (r *reverseIndex) find(children []GroupId) ([]NodeId, bool) {
	ids, ok := r.forward[childKey(children)]
	return ids, ok
}

// removeGroup drops every entry belonging to nodes in group g, both
// forward and inverse. Used by ClearLogicalNodes.
func (r *reverseIndex) removeGroup(g GroupId) {
	for id, children := range r.inverse {
		if id.Group != g {
			continue
		}
		delete(r.inverse, id)
		key := childKey(children)
		kept := r.forward[key][:0]
		for _, existing := range r.forward[key] {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		if len(kept) == 0 {
			delete(r.forward, key)
		} else {
			r.forward[key] = kept
		}
	}
}

// clear resets the index to empty.
func (r *reverseIndex) clear() {
	r.forward = make(map[string][]NodeId)
	r.inverse = make(map[NodeId][]GroupId)
}
