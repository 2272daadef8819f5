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

// Package cost holds the Coster interface for costing physical
// candidates, plus one baseline implementation. The memo package does not
// call it; it is consulted by whatever drives physical search.
package cost

import (
	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/props"
)

// Coster estimates the CPU/memory cost for one physical operator node,
// given the already-computed total cost of each of its children. It
// returns the operator's own local cost (excluding children); the caller
// adds the children's total costs on top to get the subtree total.
type Coster interface {
	EstimateCost(meta *props.Metadata, node abt.Node, childCosts []float64) (float64, error)
}

// Baseline assigns each operator kind a fixed local cost, distinguishing
// join implementations from scans, filters, and projects. It is a
// reasonable stand-in for a production costing model, not a faithful one.
type Baseline struct{}

func NewBaseline() *Baseline {
	return &Baseline{}
}

func (b *Baseline) EstimateCost(meta *props.Metadata, node abt.Node, childCosts []float64) (float64, error) {
	switch node.(type) {
	case *abt.Scan:
		return 1.0, nil
	case *abt.Filter:
		return 0.1, nil
	case *abt.Project:
		return 0.05, nil
	case *abt.InnerJoin:
		// Fixed cost above a scan's; input sizes are not considered.
		return 1.5, nil
	default:
		return 1.0, nil
	}
}
