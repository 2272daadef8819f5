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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stats exposes the memo's counters to Prometheus (SPEC_FULL.md §4.6
// mirrors the teacher's own engine-level _numIntegrations counter).
// Every Memo created with New registers its own Stats against the
// provided registerer, namespaced by the memo's instance id so multiple
// Memos in one process don't collide.
//
// Physical search (candidate exploration, winner's-circle lookups) has
// no driver inside this package — SPEC_FULL.md scopes rule scheduling
// and physical optimization to the caller above the memo — so there is
// nothing in this package to increment counters for those; add them
// back alongside whatever component ends up driving that search.
type Stats struct {
	Integrations prometheus.Counter
}

func newStats(reg prometheus.Registerer, instance string) *Stats {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"memo_instance": instance}
	return &Stats{
		Integrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "cascadeql",
			Subsystem:   "memo",
			Name:        "integrations_total",
			Help:        "Number of abt.Node subtrees integrated into the memo.",
			ConstLabels: labels,
		}),
	}
}
