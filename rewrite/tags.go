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

// Package rewrite holds the two closed rule-tag enumerations the memo
// threads through every logical node and physical candidate, so that the
// scheduler above the memo can tell which rule produced which
// alternative. The memo never interprets these tags; it only stores and
// replays them.
package rewrite

// LogicalRewriteType tags the rule that produced a logical node.
type LogicalRewriteType uint8

const (
	// Root tags the user-supplied input, before any rewrite has run.
	Root LogicalRewriteType = iota
	FilterPushDown
	JoinCommute
	JoinAssociate
	ProjectionPruning
	ProjectionPullUp
)

func (r LogicalRewriteType) String() string {
	switch r {
	case Root:
		return "Root"
	case FilterPushDown:
		return "FilterPushDown"
	case JoinCommute:
		return "JoinCommute"
	case JoinAssociate:
		return "JoinAssociate"
	case ProjectionPruning:
		return "ProjectionPruning"
	case ProjectionPullUp:
		return "ProjectionPullUp"
	default:
		return "LogicalRewriteType(unknown)"
	}
}

// PhysicalRewriteType tags the rule that produced a physical candidate.
type PhysicalRewriteType uint8

const (
	// PhysRoot tags a directly-implemented node with no alternative
	// physical rewrite applied.
	PhysRoot PhysicalRewriteType = iota
	ImplementTableScan
	ImplementIndexScan
	ImplementHashJoin
	ImplementMergeJoin
	ImplementNestedLoopJoin
	ImplementFilter
	ImplementProject
)

func (p PhysicalRewriteType) String() string {
	switch p {
	case PhysRoot:
		return "PhysRoot"
	case ImplementTableScan:
		return "ImplementTableScan"
	case ImplementIndexScan:
		return "ImplementIndexScan"
	case ImplementHashJoin:
		return "ImplementHashJoin"
	case ImplementMergeJoin:
		return "ImplementMergeJoin"
	case ImplementNestedLoopJoin:
		return "ImplementNestedLoopJoin"
	case ImplementFilter:
		return "ImplementFilter"
	case ImplementProject:
		return "ImplementProject"
	default:
		return "PhysicalRewriteType(unknown)"
	}
}
