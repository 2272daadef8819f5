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

import "github.com/cascadeql/memo/props"

// Context bundles the collaborators a Memo needs but does not own
// (SPEC_FULL.md §4.6): the query's metadata, debug switches, and the
// pluggable logical-property and cardinality-estimation implementations.
// A Memo holds exactly one Context for its lifetime.
type Context struct {
	Metadata *props.Metadata
	Debug    *props.DebugInfo
	Logical  props.LogicalPropsInterface
	CE       props.CEInterface
}

// validate panics with ErrNilContextField if any required collaborator
// is missing. A Memo cannot do useful work without all four, and
// discovering that partway through integration would leave the memo in
// an inconsistent state, so this is checked once, up front, in New.
func (c *Context) validate() {
	if c == nil {
		panic(ErrNilContextField.New("Context"))
	}
	if c.Metadata == nil {
		panic(ErrNilContextField.New("Metadata"))
	}
	if c.Debug == nil {
		panic(ErrNilContextField.New("Debug"))
	}
	if c.Logical == nil {
		panic(ErrNilContextField.New("Logical"))
	}
	if c.CE == nil {
		panic(ErrNilContextField.New("CE"))
	}
}
