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

// Package moment provides the calendar/ordinal/ISO-week time algebra that
// the rule engine evaluates date specifications against. It wraps time.Time
// rather than reimplementing calendar math, since Go's standard library
// already gets Gregorian and ISO week decomposition right; what it adds is
// the ordinal/moon-phase bookkeeping the engine needs and a component-delta
// form of addition that mirrors how a Duration is unpacked onto a start time.
package moment

import (
	"time"

	k8sclock "k8s.io/utils/clock"
)

// Clock is the external time provider. The engine never reads wall-clock
// time itself; callers supply Moments derived from a Clock they control, and
// tests use a fake implementation to inject frozen moments.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock, delegating to k8s.io/utils/clock so
// production callers and the schedule package's cron windows share one
// notion of "now" rather than each wrapping time.Now() separately.
type RealClock struct {
	k8sclock.RealClock
}

func (RealClock) Now() time.Time { return k8sclock.RealClock{}.Now().UTC() }

// Moment is an immutable calendar timestamp with sub-second precision. The
// zero value is the zero time.Time; callers should construct one with New
// or FromTime.
type Moment struct {
	t time.Time
}

// New builds a Moment for the given Clock, normalized to UTC.
func New(c Clock) Moment {
	return FromTime(c.Now())
}

// FromTime wraps an existing time.Time, normalizing to UTC so that all
// component decomposition below is relative to a single, fixed zone.
func FromTime(t time.Time) Moment {
	return Moment{t: t.UTC()}
}

// Time returns the underlying time.Time.
func (m Moment) Time() time.Time { return m.t }

// Compare returns -1, 0, or 1 as m is before, equal to, or after other.
func (m Moment) Compare(other Moment) int {
	switch {
	case m.t.Before(other.t):
		return -1
	case m.t.After(other.t):
		return 1
	default:
		return 0
	}
}

func (m Moment) Before(other Moment) bool { return m.Compare(other) < 0 }
func (m Moment) After(other Moment) bool  { return m.Compare(other) > 0 }
func (m Moment) Equal(other Moment) bool  { return m.Compare(other) == 0 }

// AddSeconds returns a new Moment offset by the given number of seconds.
func (m Moment) AddSeconds(n int) Moment {
	return Moment{t: m.t.Add(time.Duration(n) * time.Second)}
}

// ComponentDelta is a set of signed component offsets, used both to add a
// Duration onto a start time (§4.3 of the rule engine) and, in principle,
// to express any calendar-relative shift.
type ComponentDelta struct {
	Years, Months, Weeks, Days, Hours, Minutes, Seconds int
}

// Add applies each recognized component of the delta in a fixed order
// (years, months, weeks, days, hours, minutes, seconds), matching the order
// the duration unpacker adds components in.
func (m Moment) Add(d ComponentDelta) Moment {
	t := m.t
	t = t.AddDate(d.Years, d.Months, 0)
	t = t.AddDate(0, 0, 7*d.Weeks+d.Days)
	t = t.Add(time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second)
	return Moment{t: t}
}

// Components holds every decomposition of a Moment the date-spec evaluator
// consults, computed once per evaluation.
type Components struct {
	Year, Month, MonthDay int
	Hour, Minute, Second  int
	YearDay               int
	WeekYear, Week, WeekDay int
	MoonPhase             int
}

// Decompose computes every component the date-spec evaluator needs in one
// pass, so evaluating a multi-attribute date_spec only walks the clock once.
func (m Moment) Decompose() Components {
	t := m.t
	isoYear, isoWeek := t.ISOWeek()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO weekday: Monday=1 .. Sunday=7
	}
	return Components{
		Year:      t.Year(),
		Month:     int(t.Month()),
		MonthDay:  t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Second:    t.Second(),
		YearDay:   t.YearDay(),
		WeekYear:  isoYear,
		Week:      isoWeek,
		WeekDay:   weekday,
		MoonPhase: moonPhase(t.Year(), t.YearDay()),
	}
}

// moonPhase computes the lunar phase in 0..7 from the nethack formula,
// kept bit-exact for compatibility with legacy date_spec "moon" attributes.
// 0 is the new moon, 4 is the full moon. Deprecated by the rule engine, but
// still computed since the attribute is still parsed.
func moonPhase(year, yearDay int) int {
	golden := uint32(year%19) + 1
	epact := (11*golden + 18) % 30
	if (epact == 25 && golden > 11) || epact == 24 {
		epact++
	}
	phase := (((uint32(yearDay)+epact)*6 + 11) % 177) / 22
	return int(phase) & 7
}
