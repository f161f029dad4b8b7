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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clusterkit/schedcore/pkg/rules"
	"github.com/clusterkit/schedcore/pkg/test"
)

var _ = Describe("range parsing and checking", func() {
	DescribeTable("ParseRange",
		func(s string, wantOK bool, low, high *int64) {
			r, ok := rules.ParseRange(s)
			Expect(ok).To(Equal(wantOK))
			if wantOK {
				Expect(r.Low).To(Equal(low))
				Expect(r.High).To(Equal(high))
			}
		},
		Entry("bare N", "5", true, i64(5), i64(5)),
		Entry("N-", "5-", true, i64(5), nil),
		Entry("-N", "-5", true, nil, i64(5)),
		Entry("N-M", "5-10", true, i64(5), i64(10)),
		Entry("empty", "", false, nil, nil),
		Entry("garbage", "abc", false, nil, nil),
	)

	It("range totality: check_range always returns before/ok/after for a parseable range", func() {
		sink := test.NewRecordingSink()
		spec := rules.MapAttributes{Attrs: map[string]string{"hours": "9-17"}}
		for v := int64(0); v < 24; v++ {
			rc := rules.CheckRange(spec, "hours", v, rules.Options{}, sink)
			Expect(rc).To(SatisfyAny(Equal(rules.BeforeRange), Equal(rules.Ok), Equal(rules.AfterRange)))
		}
	})

	It("is Ok when the attribute is absent", func() {
		sink := test.NewRecordingSink()
		spec := rules.MapAttributes{}
		Expect(rules.CheckRange(spec, "hours", 12, rules.Options{}, sink)).To(Equal(rules.Ok))
	})
})

func i64(n int64) *int64 { return &n }
