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
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/props"
	"github.com/cascadeql/memo/rewrite"
)

// Memo is the façade described in SPEC_FULL.md §4.6: a forest of Groups,
// the reverse index that lets Integrate recognize an already-memoized
// subexpression, and the collaborators (Context) and instrumentation
// (Stats, log, tracer) that make the memo observable without coupling it
// to any particular optimizer driver loop.
type Memo struct {
	groups     []*Group
	reverseIdx *reverseIndex

	ctx   *Context
	stats *Stats
	log   *logrus.Entry

	tracer opentracing.Tracer
}

// New constructs an empty Memo. reg may be nil, in which case Stats
// counters are registered against prometheus.DefaultRegisterer. tracer
// may be nil, in which case Integrate spans are skipped.
func New(ctx *Context, instance string, log *logrus.Logger, reg prometheus.Registerer, tracer opentracing.Tracer) *Memo {
	ctx.validate()
	if log == nil {
		log = logrus.StandardLogger()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Memo{
		reverseIdx: newReverseIndex(),
		ctx:        ctx,
		stats:      newStats(reg, instance),
		log:        log.WithField("component", "memo").WithField("instance", instance),
		tracer:     tracer,
	}
}

// GetGroupCount returns the number of groups allocated so far.
func (m *Memo) GetGroupCount() int {
	return len(m.groups)
}

// GetGroup returns the group identified by id. Panics with
// ErrUnknownGroup if id does not name a live group: a caller holding a
// GroupId for a group that doesn't exist indicates memory corruption of
// the memo's own bookkeeping, not a recoverable input error.
func (m *Memo) GetGroup(id GroupId) *Group {
	if id == NoGroup || int(id) > len(m.groups) {
		panic(ErrUnknownGroup.New(uint32(id)))
	}
	return m.groups[id-1]
}

// GetNode returns the logical node identified by id.
func (m *Memo) GetNode(id NodeId) abt.Node {
	return m.GetGroup(id.Group).Node(id.Index)
}

// FindNodeInGroup returns the NodeId of a logical node structurally
// equal to n within group g, if one has already been interned.
func (m *Memo) FindNodeInGroup(g GroupId, n abt.Node) (NodeId, bool) {
	idx, ok := m.GetGroup(g).findNode(n)
	if !ok {
		return NodeId{}, false
	}
	return NodeId{Group: g, Index: idx}, true
}

// EstimateCE returns group g's estimated cardinality, computing it via
// the Context's CEInterface on first call and returning the cached value
// on every later call (SPEC_FULL.md §4.3 idempotence).
func (m *Memo) EstimateCE(g GroupId) (float64, error) {
	grp := m.GetGroup(g)
	lp, ok := grp.LogicalProps()
	if !ok {
		panic(ErrEmptyGroup.New(uint32(g)))
	}
	if grp.CardinalityKnown() {
		return lp.Cardinality, nil
	}
	ce, err := m.ctx.CE.EstimateCE(m.ctx.Metadata, grp.Representative(), lp)
	if err != nil {
		return 0, ErrEstimateCE.Wrap(err, uint32(g))
	}
	grp.setCardinality(ce)
	return ce, nil
}

func (m *Memo) allocateGroup() GroupId {
	id := GroupId(len(m.groups) + 1)
	m.groups = append(m.groups, newGroup(id))
	return id
}

func (m *Memo) childLogicalProps(groups []GroupId) ([]*props.LogicalProps, error) {
	out := make([]*props.LogicalProps, len(groups))
	for i, g := range groups {
		lp, ok := m.GetGroup(g).LogicalProps()
		if !ok {
			panic(ErrEmptyGroup.New(uint32(g)))
		}
		out[i] = lp
	}
	return out, nil
}

func resolvedChildGroups(children []abt.Child) []GroupId {
	groups := make([]GroupId, len(children))
	for i, c := range children {
		if !c.Resolved() {
			panic(ErrUnknownGroup.New(uint32(NoGroup)))
		}
		groups[i] = c.Group
	}
	return groups
}

// AddNode interns an already-built, already-resolved logical node
// directly into a known target group (SPEC_FULL.md §4.6): the operation
// a rewrite rule uses to record a new alternative for a group it is
// already exploring, as opposed to Integrate's job of memoizing a fresh
// expression tree bottom-up. n's children must already carry resolved
// GroupId references.
//
// AddNode returns insertedNodeIds, the channel by which a scheduler
// learns whether this call did real work (SPEC_FULL.md §4.5 step 4,
// §4.6): empty when n was a duplicate of an existing alternative, or a
// single-element slice holding nodeID when n was newly interned.
func (m *Memo) AddNode(n abt.Node, target GroupId, rule rewrite.LogicalRewriteType, force bool) (nodeID NodeId, insertedNodeIds []NodeId, err error) {
	g := m.GetGroup(target)
	children := resolvedChildGroups(n.Children())
	for _, cg := range children {
		if cg == target {
			panic(ErrSelfReferentialJoin.New(uint32(target)))
		}
	}

	idx, inserted := g.addNode(n, rule, force)
	nodeID = NodeId{Group: target, Index: idx}
	if inserted {
		m.reverseIdx.add(nodeID, children)
		insertedNodeIds = []NodeId{nodeID}
	}

	childProps, err := m.childLogicalProps(children)
	if err != nil {
		return NodeId{}, nil, err
	}
	lp, err := m.ctx.Logical.DeriveLogicalProps(m.ctx.Metadata, n, childProps)
	if err != nil {
		return NodeId{}, nil, ErrDeriveLogicalProps.Wrap(err, uint32(target))
	}
	if _, ok := g.LogicalProps(); ok {
		g.checkProjections(lp.Projections)
	} else {
		g.setLogicalProps(lp)
	}
	return nodeID, insertedNodeIds, nil
}

// Integrate memoizes a raw, not-yet-memoized abt.Node tree, returning the
// GroupId of its root and insertedNodeIds, every NodeId newly interned
// during this call, including the root of each freshly created group
// (SPEC_FULL.md §4.5 step 4, §4.6). It walks the tree post-order: every
// unresolved child is integrated first, and the current node is rebuilt
// with resolved GroupId children before being looked up in the reverse
// index. A node structurally equal to one already memoized under the
// same resolved children is recognized as the same expression and its
// existing group is reused, contributing nothing to insertedNodeIds
// (SPEC_FULL.md §8 deduplication invariant); rule and forceNew govern
// only the top-level node being integrated, not nodes discovered while
// recursing into unresolved children.
func (m *Memo) Integrate(n abt.Node, rule rewrite.LogicalRewriteType, forceNew bool) (GroupId, []NodeId, error) {
	var span opentracing.Span
	if m.tracer != nil {
		span = m.tracer.StartSpan("memo.Integrate")
		defer span.Finish()
	}

	var insertedNodeIds []NodeId
	seen := make(map[abt.Node]GroupId)
	id, err := m.integrate(n, rule, forceNew, seen, true, &insertedNodeIds)
	if err != nil {
		if span != nil {
			span.SetTag("error", true)
		}
		return NoGroup, nil, err
	}
	m.stats.Integrations.Inc()
	m.log.WithFields(logrus.Fields{"kind": n.Kind(), "group": id, "inserted": len(insertedNodeIds)}).Debug("integrated node")
	return id, insertedNodeIds, nil
}

func (m *Memo) integrate(n abt.Node, rule rewrite.LogicalRewriteType, forceNew bool, seen map[abt.Node]GroupId, isTop bool, insertedNodeIds *[]NodeId) (GroupId, error) {
	if gid, ok := seen[n]; ok {
		return gid, nil
	}

	children := n.Children()
	resolved := make([]GroupId, len(children))
	for i, c := range children {
		if c.Resolved() {
			resolved[i] = c.Group
			continue
		}
		childGid, err := m.integrate(c.Expr, rewrite.Root, false, seen, false, insertedNodeIds)
		if err != nil {
			return NoGroup, err
		}
		resolved[i] = childGid
	}
	rebuilt := n.WithChildren(resolved)
	force := forceNew && isTop

	var targetGroup GroupId
	matched := false
	if candidates, ok := m.reverseIdx.find(resolved); ok {
		for _, cand := range candidates {
			if m.groups[cand.Group-1].Node(cand.Index).Equal(rebuilt) {
				targetGroup = cand.Group
				matched = true
				break
			}
		}
	}

	if matched && !force {
		seen[n] = targetGroup
		return targetGroup, nil
	}

	var gid GroupId
	if matched {
		gid = targetGroup
	} else {
		gid = m.allocateGroup()
	}
	for _, cg := range resolved {
		if cg == gid {
			panic(ErrSelfReferentialJoin.New(uint32(gid)))
		}
	}

	g := m.groups[gid-1]
	idx, inserted := g.addNode(rebuilt, rule, force)
	nodeID := NodeId{Group: gid, Index: idx}
	if inserted {
		m.reverseIdx.add(nodeID, resolved)
		*insertedNodeIds = append(*insertedNodeIds, nodeID)
	}

	childProps, err := m.childLogicalProps(resolved)
	if err != nil {
		return NoGroup, err
	}
	lp, err := m.ctx.Logical.DeriveLogicalProps(m.ctx.Metadata, rebuilt, childProps)
	if err != nil {
		if !matched {
			// Roll back the group allocated above: it is the newest group
			// and holds only rebuilt, so nothing else refers to it yet.
			m.reverseIdx.removeGroup(gid)
			m.groups = m.groups[:len(m.groups)-1]
			*insertedNodeIds = (*insertedNodeIds)[:len(*insertedNodeIds)-1]
		}
		return NoGroup, ErrDeriveLogicalProps.Wrap(err, uint32(gid))
	}
	if matched {
		g.checkProjections(lp.Projections)
	} else {
		g.setLogicalProps(lp)
	}

	seen[n] = gid
	return gid, nil
}

// ClearLogicalNodes discards every logical node interned in group g,
// along with its pending rewrite queue and reverse-index entries. The
// group's derived properties and winner's circle are left intact: this
// is meant for reclaiming exploration-time memory after a group's
// physical search has concluded, not for undoing property derivation
// (SPEC_FULL.md §4.6).
func (m *Memo) ClearLogicalNodes(g GroupId) {
	grp := m.GetGroup(g)
	m.reverseIdx.removeGroup(g)
	grp.nodes.clear()
	grp.originRules = nil
	grp.queue = newRewriteQueue[RewriteDescriptor]()
}

// Clear resets the memo to its initial, empty state.
func (m *Memo) Clear() {
	m.groups = nil
	m.reverseIdx.clear()
}

// String renders every group's interned nodes, for debugging
// (cmd/memoinspect and test failures only; not meant for machine
// parsing).
func (m *Memo) String() string {
	var b strings.Builder
	for _, g := range m.groups {
		fmt.Fprintf(&b, "Group %s:\n", g.ID())
		for i := 0; i < g.NodeCount(); i++ {
			fmt.Fprintf(&b, "  #%d [%s] %s\n", i, g.OriginRule(i), g.Node(i))
		}
		if lp, ok := g.LogicalProps(); ok {
			fmt.Fprintf(&b, "  props: projections=%v cardinality_known=%v cardinality=%v\n",
				lp.Projections, lp.CardinalityKnown, lp.Cardinality)
		}
	}
	return b.String()
}
