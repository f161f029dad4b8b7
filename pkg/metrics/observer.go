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

package metrics

import (
	"github.com/clusterkit/schedcore/pkg/graph"
	"github.com/clusterkit/schedcore/pkg/rules"
)

// GraphObserver adapts Metrics to graph.Observer.
type GraphObserver struct{ m *Metrics }

// AsGraphObserver returns a graph.Observer backed by m.
func (m *Metrics) AsGraphObserver() GraphObserver { return GraphObserver{m: m} }

func (o GraphObserver) PassProcessed() {
	o.m.PropagationPasses.Inc()
}

func (o GraphObserver) EdgeDisabled(kind graph.OrderKind) {
	o.m.EdgesDisabled.WithLabelValues(kind.String()).Inc()
}

// RuleRecorder adapts Metrics to rules.Recorder.
type RuleRecorder struct{ m *Metrics }

// AsRuleRecorder returns a rules.Recorder backed by m.
func (m *Metrics) AsRuleRecorder() RuleRecorder { return RuleRecorder{m: m} }

func (r RuleRecorder) RecordResult(result rules.Result) {
	r.m.RuleEvaluations.WithLabelValues(result.String()).Inc()
}
