/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics instruments the rule evaluator and the ordering
// propagator. Unlike the teacher, which registers its collectors against
// a single controller-runtime global registry, callers here supply their
// own prometheus.Registerer, since a library embedded in someone else's
// process should never assume it owns the default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	Namespace      = "schedcore"
	rulesSubsystem = "rules"
	graphSubsystem = "graph"
	ResultLabel    = "result"
	OrderKindLabel = "order_kind"
)

// Metrics bundles every collector the package exposes. Construct with
// New and register with Register before use; the zero value's
// collectors are nil and will panic if recorded to.
type Metrics struct {
	RuleEvaluations   *prometheus.CounterVec
	PropagationPasses prometheus.Counter
	EdgesDisabled     *prometheus.CounterVec
}

// New constructs a Metrics bundle. It does not register anything; call
// Register to do that against a specific registerer.
func New() *Metrics {
	return &Metrics{
		RuleEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: rulesSubsystem,
				Name:      "evaluations_total",
				Help:      "Number of date/boolean rule evaluations, labeled by result.",
			},
			[]string{ResultLabel},
		),
		PropagationPasses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: graphSubsystem,
				Name:      "propagation_passes_total",
				Help:      "Number of times the ordering propagator's worklist processed an action.",
			},
		),
		EdgesDisabled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: graphSubsystem,
				Name:      "edges_disabled_total",
				Help:      "Number of ordering edges permanently disabled during propagation, labeled by the order kind that disabled them.",
			},
			[]string{OrderKindLabel},
		),
	}
}

// Register registers every collector in m against reg.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.RuleEvaluations,
		m.PropagationPasses,
		m.EdgesDisabled,
	)
}
