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

import "github.com/cascadeql/memo/rewrite"

// RewriteDescriptor names one pending logical rewrite: the rule to fire
// and the node it fires from (SPEC_FULL.md §6 exploration queue).
type RewriteDescriptor struct {
	Rule   rewrite.LogicalRewriteType
	Source NodeId
}

// PhysRewriteDescriptor names one pending physical implementation rule:
// the rule to fire, the logical node it implements, and the winner's
// circle entry (by index within its group's PhysicalProps table) that is
// driving the search (SPEC_FULL.md §6 physical search queue).
type PhysRewriteDescriptor struct {
	Rule            rewrite.PhysicalRewriteType
	SourceNode      NodeId
	SourcePhysIndex int
}

// rewriteQueue is a generic FIFO of pending rewrite work. Each group (for
// logical rules) and each PhysOptimizationResult (for physical rules)
// owns one, so rule scheduling can interleave breadth-first across groups
// without the memo itself ever choosing which rule fires next
// (SPEC_FULL.md §6: rule scheduling is the optimizer's job, not the
// memo's).
type rewriteQueue[T any] struct {
	items []T
}

func newRewriteQueue[T any]() *rewriteQueue[T] {
	return &rewriteQueue[T]{}
}

// push appends a descriptor to the back of the queue.
func (q *rewriteQueue[T]) push(item T) {
	q.items = append(q.items, item)
}

// pop removes and returns the descriptor at the front of the queue.
func (q *rewriteQueue[T]) pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *rewriteQueue[T]) len() int {
	return len(q.items)
}

func (q *rewriteQueue[T]) empty() bool {
	return len(q.items) == 0
}

// drain returns every queued item, in FIFO order, and empties the queue.
func (q *rewriteQueue[T]) drain() []T {
	items := q.items
	q.items = nil
	return items
}
