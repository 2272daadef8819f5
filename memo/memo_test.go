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

package memo_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/memo"
	"github.com/cascadeql/memo/props"
	"github.com/cascadeql/memo/rewrite"
)

func newTestMemo(t *testing.T) *memo.Memo {
	t.Helper()
	ctx := &memo.Context{
		Metadata: props.NewMetadata(map[string][]string{
			"orders":    {"id", "customer_id", "total"},
			"customers": {"id", "name"},
		}),
		Debug:   &props.DebugInfo{},
		Logical: props.NewBaseline(),
		CE:      props.NewBaseline(),
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	reg := prometheus.NewRegistry()
	return memo.New(ctx, t.Name(), log, reg, nil)
}

func TestIntegrateDedupsIdenticalScans(t *testing.T) {
	m := newTestMemo(t)

	g1, inserted1, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)
	g2, inserted2, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	assert.Equal(t, g1, g2)
	assert.Equal(t, 1, m.GetGroupCount())
	assert.Len(t, inserted1, 1, "first call interns the scan")
	assert.Empty(t, inserted2, "second call is a pure duplicate, per the §8 dedup invariant")
}

func TestIntegrateDistinguishesDifferentTables(t *testing.T) {
	m := newTestMemo(t)

	g1, inserted1, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)
	g2, inserted2, err := m.Integrate(abt.NewScan("customers"), rewrite.Root, false)
	require.NoError(t, err)

	assert.NotEqual(t, g1, g2)
	assert.Equal(t, 2, m.GetGroupCount())
	assert.Len(t, inserted1, 1)
	assert.Len(t, inserted2, 1)
}

func TestIntegrateSharesCommonSubtree(t *testing.T) {
	m := newTestMemo(t)

	orders := abt.NewScan("orders")
	f1 := abt.NewFilter("total > 0", orders)
	f2 := abt.NewFilter("total > 100", orders)

	_, inserted1, err := m.Integrate(f1, rewrite.Root, false)
	require.NoError(t, err)
	_, inserted2, err := m.Integrate(f2, rewrite.Root, false)
	require.NoError(t, err)

	// One Scan group, two distinct Filter groups.
	assert.Equal(t, 3, m.GetGroupCount())
	assert.Len(t, inserted1, 2, "first call interns both the scan and its filter")
	assert.Len(t, inserted2, 1, "second call reuses the already-memoized scan subtree")
}

func TestIntegrateBuildsJoinTree(t *testing.T) {
	m := newTestMemo(t)

	join := abt.NewInnerJoin("orders.customer_id = customers.id",
		abt.NewScan("orders"), abt.NewScan("customers"))

	gid, inserted, err := m.Integrate(join, rewrite.Root, false)
	require.NoError(t, err)
	assert.Len(t, inserted, 3, "join root plus its two scan children")

	grp := m.GetGroup(gid)
	require.Equal(t, 1, grp.NodeCount())
	lp, ok := grp.LogicalProps()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"id", "customer_id", "total", "id", "name"}, lp.Projections)
}

func TestIntegrateForceNewAddsDuplicateAlternative(t *testing.T) {
	m := newTestMemo(t)

	g1, inserted1, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)
	g2, inserted2, err := m.Integrate(abt.NewScan("orders"), rewrite.FilterPushDown, true)
	require.NoError(t, err)

	assert.Equal(t, g1, g2)
	assert.Equal(t, 2, m.GetGroup(g1).NodeCount())
	assert.Len(t, inserted1, 1)
	require.Len(t, inserted2, 1, "forceNew inserts a duplicate alternative, not a no-op")
	assert.Equal(t, g2, inserted2[0].Group)
}

func TestEstimateCEIsIdempotent(t *testing.T) {
	m := newTestMemo(t)
	gid, _, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	first, err := m.EstimateCE(gid)
	require.NoError(t, err)

	grp := m.GetGroup(gid)
	require.True(t, grp.CardinalityKnown())

	second, err := m.EstimateCE(gid)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddNodeRejectsSelfReferentialChild(t *testing.T) {
	m := newTestMemo(t)
	gid, _, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	selfJoin := abt.NewInnerJoin("1=1", abt.NewScan("orders"), abt.NewScan("orders")).
		WithChildren([]abt.GroupId{gid, gid})

	assert.Panics(t, func() {
		_, _, _ = m.AddNode(selfJoin, gid, rewrite.JoinAssociate, false)
	})
}

func TestAddNodeIntoExistingGroupSharesProjections(t *testing.T) {
	m := newTestMemo(t)
	gid, _, err := m.Integrate(abt.NewScan("orders", "id"), rewrite.Root, false)
	require.NoError(t, err)

	same := abt.NewScan("orders", "id")
	id, inserted, err := m.AddNode(same, gid, rewrite.FilterPushDown, true)
	require.NoError(t, err)
	assert.Equal(t, gid, id.Group)
	assert.Equal(t, 2, m.GetGroup(gid).NodeCount())
	assert.Equal(t, []memo.NodeId{id}, inserted, "force=true always inserts, even over a structural duplicate")
}

func TestClearLogicalNodesEmptiesGroupButKeepsProps(t *testing.T) {
	m := newTestMemo(t)
	gid, _, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	m.ClearLogicalNodes(gid)

	assert.Equal(t, 0, m.GetGroup(gid).NodeCount())
	_, ok := m.GetGroup(gid).LogicalProps()
	assert.True(t, ok, "derived properties survive ClearLogicalNodes")
}

func TestClearResetsTheWholeMemo(t *testing.T) {
	m := newTestMemo(t)
	_, _, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	m.Clear()
	assert.Equal(t, 0, m.GetGroupCount())
}

func TestGetGroupPanicsOnUnknownId(t *testing.T) {
	m := newTestMemo(t)
	assert.Panics(t, func() { m.GetGroup(memo.GroupId(99)) })
}

func TestFindNodeInGroup(t *testing.T) {
	m := newTestMemo(t)
	gid, _, err := m.Integrate(abt.NewScan("orders"), rewrite.Root, false)
	require.NoError(t, err)

	id, ok := m.FindNodeInGroup(gid, abt.NewScan("orders"))
	require.True(t, ok)
	assert.Equal(t, abt.NewScan("orders").Table, m.GetNode(id).(*abt.Scan).Table)

	_, ok = m.FindNodeInGroup(gid, abt.NewScan("customers"))
	assert.False(t, ok)
}
