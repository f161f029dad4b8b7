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

package rules_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clusterkit/schedcore/pkg/moment"
	"github.com/clusterkit/schedcore/pkg/rules"
	"github.com/clusterkit/schedcore/pkg/test"
)

func mustMoment(s string) moment.Moment {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return moment.FromTime(t)
}

var _ = Describe("date specification", func() {
	var sink *test.RecordingSink

	BeforeEach(func() {
		sink = test.NewRecordingSink()
	})

	It("S1: passes when now's month falls within the configured range", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"months": "1-3"}}
		now := mustMoment("2024-02-15T00:00:00Z")
		Expect(rules.EvaluateDateSpec(spec, now, rules.Options{}, sink)).To(Equal(rules.Ok))
	})

	It("S2: fails before_range when now's hour is earlier than the configured range", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"hours": "9-17"}}
		now := mustMoment("2024-02-15T08:00:00Z")
		Expect(rules.EvaluateDateSpec(spec, now, rules.Options{}, sink)).To(Equal(rules.BeforeRange))
	})

	It("S5: the new moon of 2024-01-11 matches moon 0-0 and warns about deprecation", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"moon": "0-0"}}
		now := mustMoment("2024-01-11T00:00:00Z")
		Expect(rules.EvaluateDateSpec(spec, now, rules.Options{}, sink)).To(Equal(rules.Ok))
		Expect(sink.Warnings()).To(ContainElement(ContainSubstring("deprecated")))
	})

	It("treats an empty specification as passing", func() {
		spec := rules.MapAttributes{}
		Expect(rules.EvaluateDateSpec(spec, mustMoment("2024-01-01T00:00:00Z"), rules.Options{}, sink)).To(Equal(rules.Ok))
	})

	It("warns and passes (legacy mode) on an unparsable range", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"months": "garbage"}}
		Expect(rules.EvaluateDateSpec(spec, mustMoment("2024-01-01T00:00:00Z"), rules.Options{}, sink)).To(Equal(rules.Ok))
		Expect(sink.Warnings()).NotTo(BeEmpty())
	})

	It("returns Invalid in strict mode for an unparsable range", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"months": "garbage"}}
		Expect(rules.EvaluateDateSpec(spec, mustMoment("2024-01-01T00:00:00Z"), rules.Options{Strict: true}, sink)).To(Equal(rules.Invalid))
	})
})

var _ = Describe("date expression", func() {
	var sink *test.RecordingSink

	BeforeEach(func() {
		sink = test.NewRecordingSink()
	})

	It("S3: in_range with a duration derives end and lowers the watermark a second past it", func() {
		start := mustMoment("2024-01-01T00:00:00Z")
		wm := rules.NewWatermark()
		expr := rules.DateExpression{
			Operation: "in_range",
			Start:     &start,
			Duration:  rules.Duration{"months": 1},
		}
		now := mustMoment("2024-01-15T00:00:00Z")
		Expect(rules.EvaluateDateExpression(expr, now, wm, rules.Options{}, sink)).To(Equal(rules.WithinRange))
		v, ok := wm.Value()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(mustMoment("2024-02-01T00:00:01Z")))
	})

	It("S4: gt is before_range at the exact boundary and within_range a second later", func() {
		start := mustMoment("2024-01-01T00:00:00Z")
		expr := rules.DateExpression{Operation: "gt", Start: &start}

		wm1 := rules.NewWatermark()
		Expect(rules.EvaluateDateExpression(expr, start, wm1, rules.Options{}, sink)).To(Equal(rules.BeforeRange))
		v, _ := wm1.Value()
		Expect(v).To(Equal(mustMoment("2024-01-01T00:00:01Z")))

		wm2 := rules.NewWatermark()
		Expect(rules.EvaluateDateExpression(expr, start.AddSeconds(1), wm2, rules.Options{}, sink)).To(Equal(rules.WithinRange))
	})

	It("lt is within_range before end and after_range at/after it", func() {
		end := mustMoment("2024-06-01T00:00:00Z")
		expr := rules.DateExpression{Operation: "lt", End: &end}
		wm := rules.NewWatermark()
		Expect(rules.EvaluateDateExpression(expr, end.AddSeconds(-1), wm, rules.Options{}, sink)).To(Equal(rules.WithinRange))
		Expect(rules.EvaluateDateExpression(expr, end, wm, rules.Options{}, sink)).To(Equal(rules.AfterRange))
	})

	It("open question 1: date_spec operations never lower the watermark", func() {
		spec := rules.MapAttributes{Attrs: map[string]string{"months": "1-12"}}
		expr := rules.DateExpression{Operation: "date_spec", DateSpec: spec}
		wm := rules.NewWatermark()
		rc := rules.EvaluateDateExpression(expr, mustMoment("2024-03-01T00:00:00Z"), wm, rules.Options{}, sink)
		Expect(rc).To(Equal(rules.Ok))
		_, ok := wm.Value()
		Expect(ok).To(BeFalse())
	})

	It("is undetermined for an unknown operation", func() {
		expr := rules.DateExpression{Operation: "frobnicate"}
		Expect(rules.EvaluateDateExpression(expr, mustMoment("2024-01-01T00:00:00Z"), rules.NewWatermark(), rules.Options{}, sink)).
			To(Equal(rules.Undetermined))
	})

	It("is undetermined when in_range has neither start nor end", func() {
		expr := rules.DateExpression{Operation: "in_range"}
		Expect(rules.EvaluateDateExpression(expr, mustMoment("2024-01-01T00:00:00Z"), rules.NewWatermark(), rules.Options{}, sink)).
			To(Equal(rules.Undetermined))
	})
})

var _ = Describe("rule purity", func() {
	It("returns the same result across repeated invocations and never mutates the expression", func() {
		start := mustMoment("2024-01-01T00:00:00Z")
		expr := rules.DateExpression{Operation: "gt", Start: &start}
		sink := test.NewRecordingSink()
		now := mustMoment("2024-06-01T00:00:00Z")
		for i := 0; i < 5; i++ {
			wm := rules.NewWatermark()
			Expect(rules.EvaluateDateExpression(expr, now, wm, rules.Options{}, sink)).To(Equal(rules.WithinRange))
		}
		Expect(expr.Start).To(Equal(&start))
	})
})

var _ = Describe("DateExpression hashing", func() {
	It("is stable for identical expressions and differs on a changed field", func() {
		start := mustMoment("2024-01-01T00:00:00Z")
		a := rules.DateExpression{Operation: "gt", Start: &start}
		b := rules.DateExpression{Operation: "gt", Start: &start}
		Expect(a.Hash()).To(Equal(b.Hash()))

		other := mustMoment("2025-01-01T00:00:00Z")
		c := rules.DateExpression{Operation: "gt", Start: &other}
		Expect(a.Hash()).NotTo(Equal(c.Hash()))
	})
})

var _ = Describe("watermark monotonicity", func() {
	It("never raises the watermark, only lowers it", func() {
		wm := rules.NewWatermark()
		wm.SetIfEarlier(mustMoment("2024-06-01T00:00:00Z"))
		wm.SetIfEarlier(mustMoment("2024-09-01T00:00:00Z")) // later: should be ignored
		v, _ := wm.Value()
		Expect(v).To(Equal(mustMoment("2024-06-01T00:00:00Z")))
		wm.SetIfEarlier(mustMoment("2024-01-01T00:00:00Z")) // earlier: should win
		v, _ = wm.Value()
		Expect(v).To(Equal(mustMoment("2024-01-01T00:00:00Z")))
	})
})
