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

package main

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cascadeql/memo/abt"
	"github.com/cascadeql/memo/memo"
	"github.com/cascadeql/memo/props"
	"github.com/cascadeql/memo/rewrite"
)

// Config is a plain struct rather than a flags/env layer: memoinspect is
// a development aid for exercising the memo against a hand-built plan,
// not a deployable binary.
type Config struct {
	Instance  string
	LogLevel  logrus.Level
	TableCols map[string][]string
}

var defaultConfig = Config{
	Instance: "memoinspect",
	LogLevel: logrus.InfoLevel,
	TableCols: map[string][]string{
		"orders":    {"id", "customer_id", "total"},
		"customers": {"id", "name"},
	},
}

func main() {
	config := defaultConfig

	log := logrus.New()
	log.SetLevel(config.LogLevel)

	m := memo.New(
		&memo.Context{
			Metadata: props.NewMetadata(config.TableCols),
			Debug:    &props.DebugInfo{TraceEnabled: true},
			Logical:  props.NewBaseline(),
			CE:       props.NewBaseline(),
		},
		config.Instance,
		log,
		prometheus.DefaultRegisterer,
		opentracing.GlobalTracer(),
	)

	plan := abt.NewProject(
		[]string{"customers.name", "orders.total"},
		abt.NewInnerJoin(
			"orders.customer_id = customers.id",
			abt.NewScan("orders"),
			abt.NewScan("customers"),
		),
	)

	root, inserted, err := m.Integrate(plan, rewrite.Root, false)
	if err != nil {
		panic(err)
	}

	ce, err := m.EstimateCE(root)
	if err != nil {
		panic(err)
	}

	fmt.Printf("root group: %s (estimated rows: %.0f, nodes inserted: %d)\n", root, ce, len(inserted))
	fmt.Print(m.String())
}
