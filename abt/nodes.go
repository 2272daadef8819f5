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

package abt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure"
)

// fingerprintKey is the plain value hashed by fingerprint: no channels,
// funcs, or unexported fields, so hashstructure.Hash cannot fail on it.
type fingerprintKey struct {
	Kind     Kind
	Literal  string
	Children []GroupId
}

// fingerprint combines an operator kind, a literal payload string, and an
// ordered list of child groups into a single structural hash via
// hashstructure, the same generic value-hashing library the teacher
// pulls in directly. It is an order-sensitive (commutative-insensitive,
// in the memo's terminology) combiner: swapping two entries in children
// changes the result, which is required so that e.g. (join a b) and
// (join b a) fingerprint differently until a rewrite rule explicitly
// produces the commuted shape.
func fingerprint(k Kind, literal string, children []GroupId) uint64 {
	h, err := hashstructure.Hash(fingerprintKey{Kind: k, Literal: literal, Children: children}, nil)
	if err != nil {
		panic(fmt.Sprintf("abt: hashstructure.Hash failed on a plain fingerprint value: %v", err))
	}
	return h
}

func resolvedGroups(children []Child) []GroupId {
	groups := make([]GroupId, len(children))
	for i, c := range children {
		if !c.Resolved() {
			panic(fmt.Sprintf("abt: Fingerprint/Equal called with unresolved child %d", i))
		}
		groups[i] = c.Group
	}
	return groups
}

// Scan is a leaf node reading every row of a named table with the given
// columns.
type Scan struct {
	Table   string
	Columns []string
}

func NewScan(table string, columns ...string) *Scan {
	return &Scan{Table: table, Columns: append([]string(nil), columns...)}
}

func (s *Scan) Kind() Kind          { return KindScan }
func (s *Scan) Children() []Child   { return nil }
func (s *Scan) WithChildren(groups []GroupId) Node {
	if len(groups) != 0 {
		panic("abt: Scan is a leaf and takes no children")
	}
	return &Scan{Table: s.Table, Columns: s.Columns}
}
func (s *Scan) Fingerprint() uint64 {
	return fingerprint(KindScan, s.Table+"|"+strings.Join(s.Columns, ","), nil)
}
func (s *Scan) Equal(other Node) bool {
	o, ok := other.(*Scan)
	if !ok || o.Table != s.Table || len(o.Columns) != len(s.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != o.Columns[i] {
			return false
		}
	}
	return true
}
func (s *Scan) String() string {
	return fmt.Sprintf("(scan %s)", s.Table)
}

// Filter keeps rows of Child that satisfy Predicate (an opaque scalar
// expression represented here, for the reference implementation, as a
// plain string).
type Filter struct {
	Child     Child
	Predicate string
}

func NewFilter(predicate string, child Node) *Filter {
	return &Filter{Child: ChildOf(child), Predicate: predicate}
}

func (f *Filter) Kind() Kind        { return KindFilter }
func (f *Filter) Children() []Child { return []Child{f.Child} }
func (f *Filter) WithChildren(groups []GroupId) Node {
	if len(groups) != 1 {
		panic("abt: Filter takes exactly one child")
	}
	return &Filter{Child: ChildGroup(groups[0]), Predicate: f.Predicate}
}
func (f *Filter) Fingerprint() uint64 {
	return fingerprint(KindFilter, f.Predicate, resolvedGroups(f.Children()))
}
func (f *Filter) Equal(other Node) bool {
	o, ok := other.(*Filter)
	if !ok || o.Predicate != f.Predicate {
		return false
	}
	return o.Child.Group == f.Child.Group
}
func (f *Filter) String() string {
	return fmt.Sprintf("(filter %q %s)", f.Predicate, childLabel(f.Child))
}

// Project restricts Child's output to Columns.
type Project struct {
	Child   Child
	Columns []string
}

func NewProject(columns []string, child Node) *Project {
	return &Project{Child: ChildOf(child), Columns: append([]string(nil), columns...)}
}

func (p *Project) Kind() Kind        { return KindProject }
func (p *Project) Children() []Child { return []Child{p.Child} }
func (p *Project) WithChildren(groups []GroupId) Node {
	if len(groups) != 1 {
		panic("abt: Project takes exactly one child")
	}
	return &Project{Child: ChildGroup(groups[0]), Columns: p.Columns}
}
func (p *Project) Fingerprint() uint64 {
	return fingerprint(KindProject, strings.Join(p.Columns, ","), resolvedGroups(p.Children()))
}
func (p *Project) Equal(other Node) bool {
	o, ok := other.(*Project)
	if !ok || o.Child.Group != p.Child.Group || len(o.Columns) != len(p.Columns) {
		return false
	}
	for i := range p.Columns {
		if p.Columns[i] != o.Columns[i] {
			return false
		}
	}
	return true
}
func (p *Project) String() string {
	return fmt.Sprintf("(project [%s] %s)", strings.Join(p.Columns, " "), childLabel(p.Child))
}

// InnerJoin combines Left and Right on Predicate. Ordering of Left/Right
// is significant for fingerprinting; a join-commutativity rewrite
// produces a distinct InnerJoin with Left and Right swapped rather than
// normalizing them, matching the memo's "alternative shapes in one
// group" model.
type InnerJoin struct {
	Left, Right Child
	Predicate   string
}

func NewInnerJoin(predicate string, left, right Node) *InnerJoin {
	return &InnerJoin{Left: ChildOf(left), Right: ChildOf(right), Predicate: predicate}
}

func (j *InnerJoin) Kind() Kind        { return KindInnerJoin }
func (j *InnerJoin) Children() []Child { return []Child{j.Left, j.Right} }
func (j *InnerJoin) WithChildren(groups []GroupId) Node {
	if len(groups) != 2 {
		panic("abt: InnerJoin takes exactly two children")
	}
	return &InnerJoin{Left: ChildGroup(groups[0]), Right: ChildGroup(groups[1]), Predicate: j.Predicate}
}
func (j *InnerJoin) Fingerprint() uint64 {
	return fingerprint(KindInnerJoin, j.Predicate, resolvedGroups(j.Children()))
}
func (j *InnerJoin) Equal(other Node) bool {
	o, ok := other.(*InnerJoin)
	return ok && o.Predicate == j.Predicate && o.Left.Group == j.Left.Group && o.Right.Group == j.Right.Group
}
func (j *InnerJoin) String() string {
	return fmt.Sprintf("(inner-join %q %s %s)", j.Predicate, childLabel(j.Left), childLabel(j.Right))
}

func childLabel(c Child) string {
	if c.Resolved() {
		return c.Group.String()
	}
	return c.Expr.String()
}

// SortedCopy returns a sorted copy of in, leaving in unchanged. It is the
// shared helper for order-independent projection handling: package props
// uses it in ProjectionsEqual and Baseline.DeriveLogicalProps, and package
// memo uses it when fixing a group's projection set.
func SortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
