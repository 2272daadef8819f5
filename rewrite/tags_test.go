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

package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cascadeql/memo/rewrite"
)

func TestLogicalRewriteTypeStringIsStable(t *testing.T) {
	cases := map[rewrite.LogicalRewriteType]string{
		rewrite.Root:               "Root",
		rewrite.FilterPushDown:     "FilterPushDown",
		rewrite.JoinCommute:        "JoinCommute",
		rewrite.JoinAssociate:      "JoinAssociate",
		rewrite.ProjectionPruning:  "ProjectionPruning",
		rewrite.ProjectionPullUp:   "ProjectionPullUp",
	}
	for tag, want := range cases {
		assert.Equal(t, want, tag.String())
	}
}

func TestPhysicalRewriteTypeStringIsStable(t *testing.T) {
	cases := map[rewrite.PhysicalRewriteType]string{
		rewrite.PhysRoot:                 "PhysRoot",
		rewrite.ImplementTableScan:       "ImplementTableScan",
		rewrite.ImplementIndexScan:       "ImplementIndexScan",
		rewrite.ImplementHashJoin:        "ImplementHashJoin",
		rewrite.ImplementMergeJoin:       "ImplementMergeJoin",
		rewrite.ImplementNestedLoopJoin:  "ImplementNestedLoopJoin",
		rewrite.ImplementFilter:          "ImplementFilter",
		rewrite.ImplementProject:         "ImplementProject",
	}
	for tag, want := range cases {
		assert.Equal(t, want, tag.String())
	}
}
