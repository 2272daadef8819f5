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

import (
	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/cascadeql/memo/abt"
)

// ErrUnknownTable is returned when a Baseline derivation hits a Scan over
// a table the Metadata catalog doesn't know about.
var ErrUnknownTable = errors.NewKind("props: unknown table %q")

// Baseline is a minimal, schema-aware LogicalPropsInterface and
// row-count-only CEInterface, grounded directly on the reference node
// kinds in package abt. It exists so the memo and its tests have a
// concrete, pure pair of derivation interfaces to call through; it is
// not meant to model real statistics.
type Baseline struct {
	// DefaultRowCountHint seeds the estimate for a Scan whose table has
	// no entry in RowCountHints.
	DefaultRowCountHint float64
	// RowCountHints carries per-table row-count hints in whatever loose
	// shape the caller has them in (e.g. decoded from JSON config as
	// float64, int, or numeric string); EstimateCE coerces them with
	// cast rather than requiring the caller to pre-normalize.
	RowCountHints map[string]interface{}
}

func NewBaseline() *Baseline {
	return &Baseline{DefaultRowCountHint: 1000}
}

func (b *Baseline) DeriveLogicalProps(meta *Metadata, node abt.Node, childProps []*LogicalProps) (*LogicalProps, error) {
	switch n := node.(type) {
	case *abt.Scan:
		cols, ok := meta.Tables[n.Table]
		if !ok {
			return nil, ErrUnknownTable.New(n.Table)
		}
		projections := n.Columns
		if len(projections) == 0 {
			projections = cols
		}
		return &LogicalProps{Projections: abt.SortedCopy(projections)}, nil
	case *abt.Filter:
		return &LogicalProps{Projections: abt.SortedCopy(childProps[0].Projections)}, nil
	case *abt.Project:
		return &LogicalProps{Projections: abt.SortedCopy(n.Columns)}, nil
	case *abt.InnerJoin:
		merged := append([]string(nil), childProps[0].Projections...)
		merged = append(merged, childProps[1].Projections...)
		return &LogicalProps{Projections: abt.SortedCopy(merged)}, nil
	default:
		return &LogicalProps{}, nil
	}
}

// EstimateCE produces a crude row-count estimate: scans use a per-table
// hint (falling back to DefaultRowCountHint), filters return half of
// DefaultRowCountHint, joins return DefaultRowCountHint squared times 0.1,
// and everything else returns DefaultRowCountHint. Child cardinalities
// are not consulted.
func (b *Baseline) EstimateCE(meta *Metadata, node abt.Node, lp *LogicalProps) (float64, error) {
	switch n := node.(type) {
	case *abt.Scan:
		if raw, ok := b.RowCountHints[n.Table]; ok {
			return cast.ToFloat64(raw), nil
		}
		return b.DefaultRowCountHint, nil
	case *abt.Filter:
		return b.DefaultRowCountHint * 0.5, nil
	case *abt.InnerJoin:
		return b.DefaultRowCountHint * b.DefaultRowCountHint * 0.1, nil
	default:
		return b.DefaultRowCountHint, nil
	}
}
