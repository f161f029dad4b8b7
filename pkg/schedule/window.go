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

// Package schedule implements cron-backed activation windows: "this rule
// (or disruption budget) is only enforced during the window that begins at
// each hit of this cron schedule and lasts Duration". It supplements the
// rule engine's date_expression machinery with the recurring-window idiom
// the teacher uses for its disruption Budgets, grounded in
// v1beta1.Budget.IsActive.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clusterkit/schedcore/pkg/moment"
)

// Window is a recurring activation window: if Spec and Duration are both
// empty, the window is always active. Otherwise both must be set.
type Window struct {
	// Spec is a standard (5-field) cron expression; timezones are not
	// supported, matching the teacher's documented limitation.
	Spec string
	// Duration is how long the window stays active after each cron hit.
	Duration time.Duration
}

// IsActive reports whether now falls within a hit of w's schedule. It walks
// back in time by Duration from now and checks whether the schedule's next
// hit from that checkpoint is still in the past (or exactly now); any
// earlier hit within the window would only extend it.
func (w Window) IsActive(now moment.Moment) (bool, error) {
	if w.Spec == "" && w.Duration == 0 {
		return true, nil
	}
	if w.Spec == "" || w.Duration == 0 {
		return false, fmt.Errorf("schedule window requires both a cron spec and a duration")
	}
	schedule, err := cron.ParseStandard(w.Spec)
	if err != nil {
		return false, fmt.Errorf("invalid cron schedule %q: %w", w.Spec, err)
	}
	checkpoint := now.Time().Add(-w.Duration)
	nextHit := schedule.Next(checkpoint)
	return !nextHit.After(now.Time()), nil
}
