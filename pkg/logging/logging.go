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

// Package logging adapts the two-callable config_warn/config_err sink
// contract the rule and graph engines rely on into structured zap logging.
// Nothing in this module reaches for a process-global logger; every
// diagnostic path takes a Sink explicitly.
package logging

import "go.uber.org/zap"

// Sink is the warning/error contract consumed by the rule and graph
// engines. Configuration defects call Warnf; conditions the engine cannot
// make progress on at all call Errorf. Neither ever aborts evaluation.
type Sink interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ZapSink backs a Sink with a zap.SugaredLogger.
type ZapSink struct {
	log *zap.SugaredLogger
}

// NewZapSink wraps an existing logger. Passing nil falls back to a no-op
// logger so callers that don't care about diagnostics aren't forced to wire
// one up.
func NewZapSink(log *zap.SugaredLogger) ZapSink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return ZapSink{log: log}
}

func (z ZapSink) Warnf(format string, args ...any) {
	z.log.Warnf(format, args...)
}

func (z ZapSink) Errorf(format string, args ...any) {
	z.log.Errorf(format, args...)
}

// Discard is a Sink that drops everything, for callers that genuinely don't
// want diagnostics (e.g. pure unit tests of the happy path).
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warnf(string, ...any)  {}
func (discardSink) Errorf(string, ...any) {}
