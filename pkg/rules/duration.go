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
	"go.uber.org/multierr"

	"github.com/clusterkit/schedcore/pkg/moment"
)

// durationComponents is the fixed order duration components are added in:
// years, months, weeks, days, hours, minutes, seconds.
var durationComponents = []string{"years", "months", "weeks", "days", "hours", "minutes", "seconds"}

// UnpackDuration copies start, then adds each recognized component of
// duration to it in a fixed order. An individual malformed component is
// skipped and warned about; the call still returns an end value, and the
// returned error (if any) carries the last such sub-error, matching the
// legacy-compatible behavior in spec.md §4.3.
func UnpackDuration(duration Attributes, start moment.Moment, sink Sink) (moment.Moment, error) {
	if duration == nil || sink == nil {
		return start, ErrInvalidArgument
	}
	end := start
	var errs error
	for _, comp := range durationComponents {
		raw, present := duration.Attr(comp)
		if !present {
			continue
		}
		n, ok := parseSignedInt(raw)
		if !ok {
			err := ErrInvalidArgument
			sink.Warnf("ignoring %s in duration because it is invalid", comp)
			errs = multierr.Append(errs, err)
			continue
		}
		end = end.Add(componentDelta(comp, n))
	}
	if all := multierr.Errors(errs); len(all) > 0 {
		return end, all[len(all)-1]
	}
	return end, nil
}

// Duration is the in-memory, already-parsed form of a duration
// specification: a signed integer offset per recognized component.
type Duration map[string]int

// Apply adds every recognized component of d to start in the fixed order
// years, months, weeks, days, hours, minutes, seconds.
func (d Duration) Apply(start moment.Moment) moment.Moment {
	end := start
	for _, comp := range durationComponents {
		if n, ok := d[comp]; ok {
			end = end.Add(componentDelta(comp, n))
		}
	}
	return end
}

func componentDelta(name string, n int) moment.ComponentDelta {
	switch name {
	case "years":
		return moment.ComponentDelta{Years: n}
	case "months":
		return moment.ComponentDelta{Months: n}
	case "weeks":
		return moment.ComponentDelta{Weeks: n}
	case "days":
		return moment.ComponentDelta{Days: n}
	case "hours":
		return moment.ComponentDelta{Hours: n}
	case "minutes":
		return moment.ComponentDelta{Minutes: n}
	case "seconds":
		return moment.ComponentDelta{Seconds: n}
	default:
		return moment.ComponentDelta{}
	}
}

func parseSignedInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
