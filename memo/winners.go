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
	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/props"
	"github.com/cascadeql/memo/rewrite"
)

// PhysNodeInfo is a materialized physical plan for a group under one
// required property set (SPEC_FULL.md §3).
type PhysNodeInfo struct {
	Node               abt.Node
	TotalCost          float64
	LocalCost          float64
	DisplayCardinality float64
	Rule               rewrite.PhysicalRewriteType
}

// PhysOptimizationResult is one entry of a group's winner's circle: the
// state of physical optimization under one required physical property
// set (SPEC_FULL.md §3, §4.2).
type PhysOptimizationResult struct {
	index    int
	required props.PhysicalProps

	costLimit float64
	nodeInfo  *PhysNodeInfo
	rejected  []*PhysNodeInfo

	lastImplementedNodePos int
	queue                  *rewriteQueue[PhysRewriteDescriptor]
}

func newPhysOptimizationResult(index int, required props.PhysicalProps, costLimit float64) *PhysOptimizationResult {
	return &PhysOptimizationResult{
		index:     index,
		required:  required,
		costLimit: costLimit,
		queue:     newRewriteQueue[PhysRewriteDescriptor](),
	}
}

func (r *PhysOptimizationResult) Index() int                       { return r.index }
func (r *PhysOptimizationResult) Required() props.PhysicalProps    { return r.required }
func (r *PhysOptimizationResult) CostLimit() float64               { return r.costLimit }
func (r *PhysOptimizationResult) Optimized() bool                  { return r.nodeInfo != nil }
func (r *PhysOptimizationResult) Winner() *PhysNodeInfo             { return r.nodeInfo }
func (r *PhysOptimizationResult) Rejected() []*PhysNodeInfo         { return r.rejected }
func (r *PhysOptimizationResult) LastImplementedNodePos() int       { return r.lastImplementedNodePos }
func (r *PhysOptimizationResult) SetLastImplementedNodePos(pos int) { r.lastImplementedNodePos = pos }
func (r *PhysOptimizationResult) Queue() *rewriteQueue[PhysRewriteDescriptor] {
	return r.queue
}

// RaiseCostLimit monotonically relaxes the pruning bound. Allowed only
// while unoptimized; lowering it, or raising it after a winner has been
// recorded, is a fatal programmer error (SPEC_FULL.md §4.2, and the
// Open Question in §9 resolving the post-win case as forbidden).
func (r *PhysOptimizationResult) RaiseCostLimit(newLimit float64) {
	if r.Optimized() {
		panic(ErrAlreadyOptimized.New())
	}
	if newLimit < r.costLimit {
		panic(ErrCostLimitLowered.New(r.costLimit, newLimit))
	}
	r.costLimit = newLimit
}

// SetWinner records the winning physical candidate. The caller must
// ensure info.TotalCost <= r.CostLimit(); violating that invariant is a
// programmer error and panics.
func (r *PhysOptimizationResult) SetWinner(info *PhysNodeInfo) {
	if info.TotalCost > r.costLimit {
		panic(ErrCostLimitLowered.New(r.costLimit, info.TotalCost))
	}
	r.nodeInfo = info
}

// Reject records a losing physical candidate for diagnostics.
func (r *PhysOptimizationResult) Reject(info *PhysNodeInfo) {
	r.rejected = append(r.rejected, info)
}

// ResetWinner clears a previously recorded winner so the entry can be
// re-optimized after RaiseCostLimit (SPEC_FULL.md §4.2: "callers must
// explicitly reset and raise the limit to re-optimize").
func (r *PhysOptimizationResult) ResetWinner() {
	r.nodeInfo = nil
}

// winnerTable is a group's winner's circle: every PhysOptimizationResult
// requested for that group so far, keyed by required physical properties
// and indexed in request order (SPEC_FULL.md §5 ordering guarantees).
type winnerTable struct {
	entries []*PhysOptimizationResult
	byProps map[string]int
}

func newWinnerTable() *winnerTable {
	return &winnerTable{byProps: make(map[string]int)}
}

// find returns the existing entry for required, if any.
func (w *winnerTable) find(required props.PhysicalProps) (*PhysOptimizationResult, bool) {
	idx, ok := w.byProps[required.Fingerprint()]
	if !ok {
		return nil, false
	}
	return w.entries[idx], true
}

// addOptimizationResult returns the existing entry for required if one
// exists, otherwise allocates a fresh one with the given initial cost
// limit (SPEC_FULL.md §4.2).
func (w *winnerTable) addOptimizationResult(required props.PhysicalProps, costLimit float64) *PhysOptimizationResult {
	if existing, ok := w.find(required); ok {
		return existing
	}
	idx := len(w.entries)
	entry := newPhysOptimizationResult(idx, required, costLimit)
	w.entries = append(w.entries, entry)
	w.byProps[required.Fingerprint()] = idx
	return entry
}

func (w *winnerTable) all() []*PhysOptimizationResult {
	return w.entries
}
