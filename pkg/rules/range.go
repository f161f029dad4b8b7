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

package rules

import (
	"strconv"
	"strings"
)

// Range is an inclusive [Low, High] bound where either side may be absent
// ("unbounded"), parsed from strings of the form "N", "N-", "-N", or "N-M".
type Range struct {
	Low, High *int64
}

// ParseRange parses a range expression. An empty string or a malformed
// expression is reported via ok=false; callers decide what that means
// (spec.md's legacy behavior is to warn and treat the attribute as absent).
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, false
	}
	dash := strings.Index(s, "-")
	if dash < 0 {
		// "N"
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Range{}, false
		}
		return Range{Low: &n, High: &n}, true
	}
	loStr, hiStr := s[:dash], s[dash+1:]
	var r Range
	if loStr != "" {
		n, err := strconv.ParseInt(loStr, 10, 64)
		if err != nil {
			return Range{}, false
		}
		r.Low = &n
	}
	if hiStr != "" {
		n, err := strconv.ParseInt(hiStr, 10, 64)
		if err != nil {
			return Range{}, false
		}
		r.High = &n
	}
	if r.Low == nil && r.High == nil {
		return Range{}, false
	}
	return r, true
}

// Options gates the legacy-vs-strict behaviors the rule engine's error
// handling design calls for: by default every configuration defect is
// reported to the Sink and mapped to the most lenient safe outcome: Strict
// flips that to a hard Invalid/non-passing result instead.
type Options struct {
	Strict bool
	// Recorder, if set, is notified of every top-level rule evaluation's
	// outcome. It is an instrumentation seam, not part of evaluation
	// semantics: leaving it nil changes nothing about the result.
	Recorder Recorder
}

// Recorder observes rule evaluation outcomes for metrics. Implementations
// must tolerate concurrent calls.
type Recorder interface {
	RecordResult(Result)
}

// CheckRange classifies value against the range parsed from attr on spec.
// An absent attribute is always Ok. An unparsable range warns and returns Ok
// unless Strict is set, in which case it returns Invalid.
func CheckRange(spec Attributes, attr string, value int64, opts Options, sink Sink) Result {
	raw, present := spec.Attr(attr)
	if !present {
		return Ok
	}
	r, ok := ParseRange(raw)
	if !ok {
		sink.Warnf("ignoring date_spec attribute %s because %q is not a valid range", attr, raw)
		if opts.Strict {
			return Invalid
		}
		return Ok
	}
	switch {
	case r.Low != nil && value < *r.Low:
		return BeforeRange
	case r.High != nil && value > *r.High:
		return AfterRange
	default:
		return Ok
	}
}

// Sink is a local alias to avoid rules importing the logging package's
// concrete types; any logging.Sink satisfies it structurally.
type Sink interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
