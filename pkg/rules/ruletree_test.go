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

var _ = Describe("rule tree composition", func() {
	var sink *test.RecordingSink

	BeforeEach(func() {
		sink = test.NewRecordingSink()
	})

	It("And passes only when every sub-expression passes", func() {
		node := rules.RuleNode{
			Op: rules.And,
			Expressions: []rules.Expression{
				rules.RscExpr{Class: "ocf"},
				rules.AttrExpr{Attribute: "region", Comparison: rules.AttrEq, Value: "us-east"},
			},
		}
		ctx := rules.Context{
			ResourceClass: "ocf",
			Attribute:     func(n string) (string, bool) { return "us-east", true },
		}
		Expect(node.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.Ok))

		ctx.ResourceClass = "systemd"
		Expect(node.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.OpUnsatisfied))
	})

	It("Or passes as soon as one sub-expression passes", func() {
		node := rules.RuleNode{
			Op: rules.Or,
			Expressions: []rules.Expression{
				rules.AttrExpr{Attribute: "region", Comparison: rules.AttrEq, Value: "us-east"},
				rules.AttrExpr{Attribute: "region", Comparison: rules.AttrEq, Value: "us-west"},
			},
		}
		ctx := rules.Context{Attribute: func(n string) (string, bool) { return "us-west", true }}
		Expect(node.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.Ok))
	})

	It("an empty rule passes", func() {
		node := rules.RuleNode{Op: rules.And}
		Expect(node.Evaluate(rules.Context{}, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.Ok))
	})

	It("attribute in_range checks numeric bounds", func() {
		expr := rules.AttrExpr{Attribute: "load", Comparison: rules.AttrInRange, Low: "1", High: "5"}
		ctx := rules.Context{Attribute: func(n string) (string, bool) { return "3", true }}
		Expect(expr.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.Ok))
		ctx.Attribute = func(n string) (string, bool) { return "9", true }
		Expect(expr.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.OpUnsatisfied))
	})

	It("AND propagates a date expression's within_range distinctly from ok", func() {
		start := mustMoment("2024-01-01T00:00:00Z")
		node := rules.RuleNode{
			Op: rules.And,
			Expressions: []rules.Expression{
				rules.DateExpr{Expr: rules.DateExpression{Operation: "gt", Start: &start}},
			},
		}
		ctx := rules.Context{Now: mustMoment("2024-06-01T00:00:00Z")}
		Expect(node.Evaluate(ctx, rules.NewWatermark(), rules.Options{}, sink)).To(Equal(rules.WithinRange))
	})

	It("Hash is stable across equal trees and order-independent across sub-expressions", func() {
		a := rules.RuleNode{
			Op: rules.And,
			Expressions: []rules.Expression{
				rules.RscExpr{Class: "ocf"},
				rules.AttrExpr{Attribute: "region", Comparison: rules.AttrEq, Value: "us-east"},
			},
		}
		b := rules.RuleNode{
			Op: rules.And,
			Expressions: []rules.Expression{
				rules.AttrExpr{Attribute: "region", Comparison: rules.AttrEq, Value: "us-east"},
				rules.RscExpr{Class: "ocf"},
			},
		}
		Expect(a.Hash()).To(Equal(b.Hash()))

		c := rules.RuleNode{
			Op:          rules.And,
			Expressions: []rules.Expression{rules.RscExpr{Class: "systemd"}},
		}
		Expect(a.Hash()).NotTo(Equal(c.Hash()))
	})
})
