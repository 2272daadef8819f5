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

import "gopkg.in/src-d/go-errors.v1"

// Fatal error kinds (SPEC_FULL.md §7: invariant/precondition violations).
// These are never returned as a plain error; the memo panics with them,
// since by definition the memo is no longer usable once one fires.
var (
	ErrProjectionMismatch = errors.NewKind("memo: group %d has fixed projections %v, got %v")
	ErrUnknownGroup       = errors.NewKind("memo: reference to unknown group %d")
	ErrSelfReferentialJoin = errors.NewKind("memo: node in group %d directly references itself as a child")
	ErrNilContextField    = errors.NewKind("memo: Context field %s must not be nil")
	ErrCostLimitLowered   = errors.NewKind("memo: cost limit may not be lowered (current=%v new=%v)")
	ErrAlreadyOptimized   = errors.NewKind("memo: physical result already has a winner; reset before raising its cost limit")
	ErrEmptyGroup         = errors.NewKind("memo: group %d has no logical nodes to use as a representative")
)

// ErrDeriveLogicalProps wraps a caller-recoverable failure from the
// external LogicalPropsInterface (SPEC_FULL.md §7 "Property derivation
// failure"): surfaced to the caller as a plain error rather than a panic.
var ErrDeriveLogicalProps = errors.NewKind("memo: failed to derive logical properties for group %d")

// ErrEstimateCE wraps a caller-recoverable failure from the external
// CEInterface.
var ErrEstimateCE = errors.NewKind("memo: failed to estimate cardinality for group %d")
