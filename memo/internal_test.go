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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/props"
	"github.com/cascadeql/memo/rewrite"
)

func TestInternSetDedupsByStructuralEquality(t *testing.T) {
	s := newInternSet()
	idx1, inserted1 := s.emplaceBack(abt.NewScan("orders"), false)
	idx2, inserted2 := s.emplaceBack(abt.NewScan("orders"), false)

	assert.True(t, inserted1)
	assert.False(t, inserted2)
	assert.Equal(t, idx1, idx2)
	assert.Equal(t, 1, s.len())
}

func TestInternSetForceAlwaysAppends(t *testing.T) {
	s := newInternSet()
	s.emplaceBack(abt.NewScan("orders"), false)
	idx, inserted := s.emplaceBack(abt.NewScan("orders"), true)

	assert.True(t, inserted)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, s.len())
}

func TestInternSetClear(t *testing.T) {
	s := newInternSet()
	s.emplaceBack(abt.NewScan("orders"), false)
	s.clear()
	assert.Equal(t, 0, s.len())
	_, ok := s.find(abt.NewScan("orders"))
	assert.False(t, ok)
}

func TestReverseIndexFindAndRemoveGroup(t *testing.T) {
	r := newReverseIndex()
	id := NodeId{Group: GroupId(1), Index: 0}
	r.add(id, []GroupId{2, 3})

	found, ok := r.find([]GroupId{2, 3})
	require.True(t, ok)
	assert.Equal(t, []NodeId{id}, found)

	_, ok = r.find([]GroupId{3, 2})
	assert.False(t, ok, "child order is significant")

	r.removeGroup(1)
	_, ok = r.find([]GroupId{2, 3})
	assert.False(t, ok)
}

func TestWinnerTableReusesEntryForSameRequiredProps(t *testing.T) {
	w := newWinnerTable()
	req := props.PhysicalProps{Ordering: []string{"id"}}

	e1 := w.addOptimizationResult(req, 100)
	e2 := w.addOptimizationResult(req, 999)

	assert.Same(t, e1, e2, "same required props reuse the same entry, later cost limit ignored")
	assert.Equal(t, 100.0, e1.CostLimit())
}

func TestPhysOptimizationResultCostLimitIsMonotonic(t *testing.T) {
	r := newPhysOptimizationResult(0, props.MinPhysicalProps, 10)
	r.RaiseCostLimit(20)
	assert.Equal(t, 20.0, r.CostLimit())

	assert.Panics(t, func() { r.RaiseCostLimit(5) })
}

func TestPhysOptimizationResultCannotRaiseAfterWinner(t *testing.T) {
	r := newPhysOptimizationResult(0, props.MinPhysicalProps, 10)
	r.SetWinner(&PhysNodeInfo{TotalCost: 5})

	assert.True(t, r.Optimized())
	assert.Panics(t, func() { r.RaiseCostLimit(50) })

	r.ResetWinner()
	assert.NotPanics(t, func() { r.RaiseCostLimit(50) })
}

func TestRewriteQueueFIFO(t *testing.T) {
	q := newRewriteQueue[RewriteDescriptor]()
	q.push(RewriteDescriptor{Rule: rewrite.FilterPushDown})
	q.push(RewriteDescriptor{Rule: rewrite.JoinCommute})

	first, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, rewrite.FilterPushDown, first.Rule)

	assert.Equal(t, 1, q.len())
	drained := q.drain()
	assert.Len(t, drained, 1)
	assert.True(t, q.empty())
}

func TestGroupCheckProjectionsFixesOnFirstCallThenValidates(t *testing.T) {
	g := newGroup(GroupId(1))
	g.checkProjections([]string{"b", "a"})

	got, ok := g.Projections()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	assert.NotPanics(t, func() { g.checkProjections([]string{"a", "b"}) })
	assert.Panics(t, func() { g.checkProjections([]string{"a", "c"}) })
}
