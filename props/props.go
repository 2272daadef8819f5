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

// Package props holds the logical/physical property model and the two
// narrow external interfaces the memo consults to derive them
// (LogicalPropsInterface, CEInterface), plus one baseline implementation
// of each so the memo is independently testable. A production embedder
// supplies its own, typically schema- and statistics-aware,
// implementations.
package props

import (
	"fmt"
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/cascadeql/memo/abt"
)

// Metadata is an opaque, read-only bundle of catalog information passed
// through every memo operation. The memo never inspects it.
type Metadata struct {
	// CorrelationID distinguishes the optimizations of concurrently
	// running, independent Memo instances in logs and traces (the memo
	// itself is single-threaded per optimization; this only helps tell
	// separate optimizations apart).
	CorrelationID uuid.UUID
	// Tables maps a table name to its full column list, standing in for
	// a real catalog/schema service.
	Tables map[string][]string
}

// NewMetadata returns Metadata with a fresh correlation id.
func NewMetadata(tables map[string][]string) *Metadata {
	return &Metadata{CorrelationID: uuid.NewV4(), Tables: tables}
}

// DebugInfo is an opaque, read-only bundle of debugging/tracing toggles
// passed through every memo operation. The memo never inspects it.
type DebugInfo struct {
	TraceEnabled bool
}

// LogicalProps are the derived, schema-level properties shared by every
// logical node in one group: the columns the group produces, and a
// cardinality estimate filled in lazily by EstimateCE.
type LogicalProps struct {
	Projections []string

	CardinalityKnown bool
	Cardinality      float64
}

// ProjectionsEqual reports whether two projection sets contain the same
// columns, independent of order (derivation order may legitimately
// differ between equivalent rewrites of the same group).
func ProjectionsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := abt.SortedCopy(a), abt.SortedCopy(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// PhysicalProps are the physical requirements a group's consumer places
// on its output, such as a required ordering or row limit. Two
// PhysicalProps are the hash/equality key of a group's winner's circle
// entry, via Fingerprint.
type PhysicalProps struct {
	// Ordering is the required output column ordering, empty if any
	// order is acceptable.
	Ordering []string
	// Limit caps the number of rows the consumer will read, or 0 for
	// unbounded.
	Limit int64
}

// Fingerprint returns a stable string key for use as a map key in the
// winner's circle; equal PhysicalProps always produce equal
// fingerprints.
func (p PhysicalProps) Fingerprint() string {
	var b strings.Builder
	b.WriteString(strings.Join(p.Ordering, ","))
	fmt.Fprintf(&b, "|limit=%d", p.Limit)
	return b.String()
}

// MinPhysicalProps requires nothing of its producer: any ordering, no
// limit. It is the required property set of the memo's root consumer by
// default.
var MinPhysicalProps = PhysicalProps{}
