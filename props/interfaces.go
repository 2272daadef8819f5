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

package props

import "github.com/cascadeql/memo/abt"

// LogicalPropsInterface derives a node's logical properties from the
// node itself and its already-derived child logical properties. It must
// be pure: the same node and child properties always produce the same
// result, or the memo's determinism guarantee (SPEC_FULL.md §8) breaks.
type LogicalPropsInterface interface {
	DeriveLogicalProps(meta *Metadata, node abt.Node, childProps []*LogicalProps) (*LogicalProps, error)
}

// CEInterface derives a cardinality estimate for a group's representative
// node, given that group's logical properties. Like LogicalPropsInterface
// it must be pure with respect to the memo.
type CEInterface interface {
	EstimateCE(meta *Metadata, node abt.Node, lp *LogicalProps) (float64, error)
}
