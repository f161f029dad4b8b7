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

import "github.com/clusterkit/schedcore/pkg/moment"

// dateSpecAttrs is the fixed, ordered table of recognized date_spec
// component names. Evaluation walks this table in order and returns on the
// first non-Ok result, matching spec.md §4.2 exactly. "moon" is last and
// deprecated but still parsed for bit-exact legacy compatibility.
var dateSpecAttrs = []string{
	"years", "months", "monthdays", "hours", "minutes", "seconds",
	"yeardays", "weekyears", "weeks", "weekdays", "moon",
}

// EvaluateDateSpec applies every recognized range attribute of spec to now,
// in the fixed order above, returning the first non-Ok result. An empty
// specification (no recognized attribute present) passes.
func EvaluateDateSpec(spec Attributes, now moment.Moment, opts Options, sink Sink) Result {
	if spec == nil {
		return Invalid
	}
	c := now.Decompose()
	values := map[string]int64{
		"years":     int64(c.Year),
		"months":    int64(c.Month),
		"monthdays": int64(c.MonthDay),
		"hours":     int64(c.Hour),
		"minutes":   int64(c.Minute),
		"seconds":   int64(c.Second),
		"yeardays":  int64(c.YearDay),
		"weekyears": int64(c.WeekYear),
		"weeks":     int64(c.Week),
		"weekdays":  int64(c.WeekDay),
		"moon":      int64(c.MoonPhase),
	}
	if _, present := spec.Attr("moon"); present {
		sink.Warnf("support for 'moon' in date_spec elements is deprecated and will be removed in a future release")
	}
	for _, attr := range dateSpecAttrs {
		if rc := CheckRange(spec, attr, values[attr], opts, sink); rc != Ok {
			return rc
		}
	}
	return Ok
}
