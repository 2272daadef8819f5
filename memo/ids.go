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

// Package memo implements the Cascades-style memo: a forest of equivalence
// groups that deduplicates algebraic plan fragments, preserves rewrite
// order, and coordinates the queues that drive logical exploration and
// physical optimization.
//
// The memo is not safe for concurrent use; a single optimization task
// drives one Memo from one goroutine (SPEC_FULL.md §5).
package memo

import (
	"fmt"

	"github.com/cascadeql/memo/abt"
)

// GroupId identifies one equivalence class in the memo. It is an alias
// for abt.GroupId, since ABT nodes store their child references using
// this same dense integer space.
type GroupId = abt.GroupId

// NoGroup is the zero GroupId, meaning "no group" / "unresolved".
const NoGroup = abt.NoGroup

// NodeId identifies one logical node within a group: the pair of the
// owning group and that node's dense index within the group's interning
// set. NodeId is stable for the memo's lifetime, except that
// ClearLogicalNodes resets indices within the one group it targets.
type NodeId struct {
	Group GroupId
	Index int
}

func (n NodeId) String() string {
	return fmt.Sprintf("%s#%d", n.Group, n.Index)
}
