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

// Group is one equivalence class (SPEC_FULL.md §3, §4.3): every logical
// node appended to it is known to be output-equivalent to every other.
// A Group owns its own interning set (so nodes are deduplicated within
// the group, not across the whole memo), the queue of logical rewrites
// still pending against it, its lazily-derived logical properties, and
// the winner's circle recording physical search progress.
type Group struct {
	id GroupId

	nodes       *internSet
	originRules []rewrite.LogicalRewriteType

	projections     []string
	projectionsSet  bool
	logicalProps    *props.LogicalProps
	cardinalityKnown bool

	queue   *rewriteQueue[RewriteDescriptor]
	winners *winnerTable
}

func newGroup(id GroupId) *Group {
	return &Group{
		id:      id,
		nodes:   newInternSet(),
		queue:   newRewriteQueue[RewriteDescriptor](),
		winners: newWinnerTable(),
	}
}

func (g *Group) ID() GroupId { return g.id }

// NodeCount returns the number of logical nodes currently interned in
// this group.
func (g *Group) NodeCount() int { return g.nodes.len() }

// Node returns the logical node at the given index within this group.
func (g *Group) Node(index int) abt.Node { return g.nodes.at(index) }

// Representative returns the group's first-inserted logical node, used
// as the basis for deriving the group's logical properties
// (SPEC_FULL.md §4.3: properties are derived once, from the node that
// established the group).
func (g *Group) Representative() abt.Node {
	if g.nodes.len() == 0 {
		panic(ErrEmptyGroup.New(uint32(g.id)))
	}
	return g.nodes.at(0)
}

// findNode returns the index of a structurally equal node already
// present in this group, if any.
func (g *Group) findNode(n abt.Node) (int, bool) {
	return g.nodes.find(n)
}

// addNode interns n into this group, tagging it with the rule that
// produced it. force mirrors internSet.emplaceBack: when true, n is
// appended even if an equal node already exists (SPEC_FULL.md §4.5
// forced-distinct insertion).
//
// addNode does not touch g.queue: the rule tag recorded here names what
// produced n, not a rewrite pending against it, and queue content is the
// scheduler's to manage (SPEC_FULL.md §6/§9). The memo's only reporting
// channel for newly-inserted nodes is the insertedNodeIds collected by
// Memo.Integrate/Memo.AddNode.
func (g *Group) addNode(n abt.Node, rule rewrite.LogicalRewriteType, force bool) (index int, inserted bool) {
	index, inserted = g.nodes.emplaceBack(n, force)
	if inserted {
		g.originRules = append(g.originRules, rule)
	}
	return index, inserted
}

// OriginRule returns the rewrite rule tag recorded for the node at index.
func (g *Group) OriginRule(index int) rewrite.LogicalRewriteType {
	return g.originRules[index]
}

// Queue returns the group's pending logical rewrite queue.
func (g *Group) Queue() *rewriteQueue[RewriteDescriptor] { return g.queue }

// Winners returns the group's winner's circle.
func (g *Group) Winners() *winnerTable { return g.winners }

// Projections returns the group's fixed output column set, if derived.
func (g *Group) Projections() ([]string, bool) {
	return g.projections, g.projectionsSet
}

// checkProjections enforces that every logical node in a group produces
// the same output projections (SPEC_FULL.md §3 invariant). The first
// call fixes the group's projection set; every later call must agree,
// or the memo panics: a projection mismatch means two nodes were placed
// in the same equivalence class despite not being equivalent, which is
// an integration-time programmer error, not a recoverable condition.
func (g *Group) checkProjections(candidate []string) {
	sorted := abt.SortedCopy(candidate)
	if !g.projectionsSet {
		g.projections = sorted
		g.projectionsSet = true
		return
	}
	if !props.ProjectionsEqual(g.projections, sorted) {
		panic(ErrProjectionMismatch.New(uint32(g.id), g.projections, sorted))
	}
}

// LogicalProps returns the group's derived logical properties, if any
// have been computed yet.
func (g *Group) LogicalProps() (*props.LogicalProps, bool) {
	return g.logicalProps, g.logicalProps != nil
}

// setLogicalProps records the group's logical properties. Called once,
// by the memo, immediately after the representative node's properties
// are derived.
func (g *Group) setLogicalProps(lp *props.LogicalProps) {
	g.logicalProps = lp
	g.checkProjections(lp.Projections)
}

// CardinalityKnown reports whether EstimateCE has already populated this
// group's cardinality (SPEC_FULL.md §4.3: EstimateCE is idempotent,
// computed at most once per group).
func (g *Group) CardinalityKnown() bool {
	return g.logicalProps != nil && g.logicalProps.CardinalityKnown
}

// setCardinality records the group's estimated row count. Only valid
// once, and only after LogicalProps has been derived.
func (g *Group) setCardinality(ce float64) {
	g.logicalProps.CardinalityKnown = true
	g.logicalProps.Cardinality = ce
}
