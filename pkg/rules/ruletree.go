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
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/samber/lo"

	"github.com/clusterkit/schedcore/pkg/moment"
)

// Context carries everything a rule tree's leaf expressions consult: the
// moment to evaluate against, the resource/operation being considered (if
// any), and a node-attribute lookup. A rule that never references resource,
// operation, or attribute expressions can leave those fields unset.
type Context struct {
	Now             moment.Moment
	ResourceClass   string
	ResourceProvider string
	ResourceType    string
	OperationName   string
	OperationIntervalMS int
	Attribute       func(name string) (string, bool)
}

// Expression is one leaf or composite node of a rule tree.
type Expression interface {
	Evaluate(ctx Context, wm *Watermark, opts Options, sink Sink) Result
}

// DateExpr adapts a DateExpression into an Expression.
type DateExpr struct{ Expr DateExpression }

func (d DateExpr) Evaluate(ctx Context, wm *Watermark, opts Options, sink Sink) Result {
	return EvaluateDateExpression(d.Expr, ctx.Now, wm, opts, sink)
}

// RscExpr matches a resource's class/provider/type against the rule. Any
// field left empty is not checked.
type RscExpr struct {
	Class, Provider, Type string
}

func (r RscExpr) Evaluate(ctx Context, _ *Watermark, _ Options, _ Sink) Result {
	if r.Class != "" && r.Class != ctx.ResourceClass {
		return OpUnsatisfied
	}
	if r.Provider != "" && r.Provider != ctx.ResourceProvider {
		return OpUnsatisfied
	}
	if r.Type != "" && r.Type != ctx.ResourceType {
		return OpUnsatisfied
	}
	return Ok
}

// OpExpr matches an operation's name and, optionally, interval.
type OpExpr struct {
	Name       string
	IntervalMS *int
}

func (o OpExpr) Evaluate(ctx Context, _ *Watermark, _ Options, _ Sink) Result {
	if o.Name != "" && o.Name != ctx.OperationName {
		return OpUnsatisfied
	}
	if o.IntervalMS != nil && *o.IntervalMS != ctx.OperationIntervalMS {
		return OpUnsatisfied
	}
	return Ok
}

// AttrComparison is the operator an AttrExpr applies.
type AttrComparison string

const (
	AttrDefined    AttrComparison = "defined"
	AttrNotDefined AttrComparison = "not_defined"
	AttrEq         AttrComparison = "eq"
	AttrNe         AttrComparison = "ne"
	AttrLt         AttrComparison = "lt"
	AttrGt         AttrComparison = "gt"
	AttrLte        AttrComparison = "lte"
	AttrGte        AttrComparison = "gte"
	AttrInRange    AttrComparison = "in_range"
)

// AttrExpr compares a named node attribute's current value against Value
// (or Low/High for in_range) using Comparison. Values are compared as
// integers when both sides parse as one; otherwise lexically, matching the
// legacy "string, then numeric if possible" comparison semantics.
type AttrExpr struct {
	Attribute  string
	Comparison AttrComparison
	Value      string
	Low, High  string
}

func (a AttrExpr) Evaluate(ctx Context, _ *Watermark, _ Options, sink Sink) Result {
	if ctx.Attribute == nil {
		sink.Warnf("attribute expression %s has no attribute source", a.Attribute)
		return Undetermined
	}
	val, present := ctx.Attribute(a.Attribute)
	switch a.Comparison {
	case AttrDefined:
		return boolResult(present)
	case AttrNotDefined:
		return boolResult(!present)
	case AttrEq:
		return boolResult(present && val == a.Value)
	case AttrNe:
		return boolResult(!present || val != a.Value)
	case AttrLt, AttrGt, AttrLte, AttrGte:
		if !present {
			return OpUnsatisfied
		}
		return boolResult(compareValues(val, a.Value, a.Comparison))
	case AttrInRange:
		if !present {
			return OpUnsatisfied
		}
		lo, hasLo := parseComparable(a.Low)
		hi, hasHi := parseComparable(a.High)
		v, vOK := parseComparable(val)
		if !vOK {
			return OpUnsatisfied
		}
		if hasLo && v < lo {
			return OpUnsatisfied
		}
		if hasHi && v > hi {
			return OpUnsatisfied
		}
		return Ok
	default:
		sink.Warnf("attribute expression %s has unknown comparison %q", a.Attribute, a.Comparison)
		return Undetermined
	}
}

func boolResult(b bool) Result {
	if b {
		return Ok
	}
	return OpUnsatisfied
}

func compareValues(lhs, rhs string, cmp AttrComparison) bool {
	l, lok := parseComparable(lhs)
	r, rok := parseComparable(rhs)
	if lok && rok {
		switch cmp {
		case AttrLt:
			return l < r
		case AttrGt:
			return l > r
		case AttrLte:
			return l <= r
		case AttrGte:
			return l >= r
		}
	}
	switch cmp {
	case AttrLt:
		return lhs < rhs
	case AttrGt:
		return lhs > rhs
	case AttrLte:
		return lhs <= rhs
	case AttrGte:
		return lhs >= rhs
	}
	return false
}

func parseComparable(s string) (float64, bool) {
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
	var n float64
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + float64(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// BooleanOp is how a RuleNode combines its sub-expressions.
type BooleanOp string

const (
	And BooleanOp = "and"
	Or  BooleanOp = "or"
)

// RuleNode is a boolean composition of sub-expressions: the "rule" of
// spec.md's glossary. A rule with no sub-expressions passes (matching the
// empty-date_spec convention).
type RuleNode struct {
	Op          BooleanOp
	Expressions []Expression
}

// Hash returns a stable content hash of the rule tree, order-independent
// across its sub-expressions. Callers use it to tell whether a rule's
// definition changed underneath a cached Watermark without comparing the
// tree structurally field by field.
func (n RuleNode) Hash() string {
	return fmt.Sprint(lo.Must(hashstructure.Hash(n, hashstructure.FormatV2, &hashstructure.HashOptions{
		SlicesAsSets:    true,
		IgnoreZeroValue: true,
		ZeroNil:         true,
	})))
}

func (n RuleNode) Evaluate(ctx Context, wm *Watermark, opts Options, sink Sink) Result {
	result := n.evaluate(ctx, wm, opts, sink)
	if opts.Recorder != nil {
		opts.Recorder.RecordResult(result)
	}
	return result
}

func (n RuleNode) evaluate(ctx Context, wm *Watermark, opts Options, sink Sink) Result {
	if len(n.Expressions) == 0 {
		return Ok
	}
	if n.Op == Or {
		last := OpUnsatisfied
		for _, e := range n.Expressions {
			rc := e.Evaluate(ctx, wm, opts, sink)
			if rc.Passing() {
				return rc
			}
			last = rc
		}
		return last
	}
	// And is the default composition.
	result := Ok
	for _, e := range n.Expressions {
		rc := e.Evaluate(ctx, wm, opts, sink)
		if rc.NonPassing() {
			return rc
		}
		if rc == WithinRange {
			result = WithinRange
		}
	}
	return result
}
