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

package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clusterkit/schedcore/pkg/graph"
	"github.com/clusterkit/schedcore/pkg/resourcepolicy/memory"
	"github.com/clusterkit/schedcore/pkg/test"
)

var _ = Describe("ordering propagation", func() {
	var policy *memory.Store
	var sink *test.RecordingSink

	BeforeEach(func() {
		policy = memory.New()
		sink = test.NewRecordingSink()
	})

	It("propagates an unrunnable predecessor through a three-action chain", func() {
		g := graph.NewGraph()
		a := g.AddAction("notify", "", "", graph.Flags(0)) // unrunnable: no FlagRunnable set
		b := g.AddAction("notify", "", "", graph.FlagRunnable)
		c := g.AddAction("notify", "", "", graph.FlagRunnable)
		g.AddEdge(a, b, graph.OrderRunnableLeft)
		g.AddEdge(b, c, graph.OrderRunnableLeft)

		g.UpdateAction(c, policy, sink, nil)

		Expect(g.Flags(a).Has(graph.FlagRunnable)).To(BeFalse())
		Expect(g.Flags(b).Has(graph.FlagRunnable)).To(BeFalse())
		Expect(g.Flags(c).Has(graph.FlagRunnable)).To(BeFalse())
	})

	It("requires only a configurable number of one_or_more predecessors", func() {
		g := graph.NewGraph()
		p1 := g.AddAction("notify", "", "", graph.FlagRunnable)
		p2 := g.AddAction("notify", "", "", graph.FlagRunnable)
		p3 := g.AddAction("notify", "", "", graph.Flags(0))
		then := g.AddAction("notify", "", "", graph.FlagRequiresAny)
		g.SetRequiredRunnableBefore(then, 2)
		g.AddEdge(p1, then, graph.OrderOneOrMore)
		g.AddEdge(p2, then, graph.OrderOneOrMore)
		g.AddEdge(p3, then, graph.OrderOneOrMore)

		g.UpdateAction(then, policy, sink, nil)

		Expect(g.Flags(then).Has(graph.FlagRunnable)).To(BeTrue())
	})

	It("does not mark then runnable when fewer than required predecessors are runnable", func() {
		g := graph.NewGraph()
		p1 := g.AddAction("notify", "", "", graph.FlagRunnable)
		p2 := g.AddAction("notify", "", "", graph.Flags(0))
		then := g.AddAction("notify", "", "", graph.FlagRequiresAny)
		g.SetRequiredRunnableBefore(then, 2)
		g.AddEdge(p1, then, graph.OrderOneOrMore)
		g.AddEdge(p2, then, graph.OrderOneOrMore)

		g.UpdateAction(then, policy, sink, nil)

		Expect(g.Flags(then).Has(graph.FlagRunnable)).To(BeFalse())
	})

	It("disables a same_node edge whose endpoints are on different nodes", func() {
		g := graph.NewGraph()
		first := g.AddAction("start", "", "node-a", graph.FlagRunnable)
		then := g.AddAction("start", "", "node-b", graph.FlagRunnable)
		edge := g.AddEdge(first, then, graph.OrderSameNode|graph.OrderRunnableLeft)

		g.UpdateAction(then, policy, sink, nil)

		Expect(g.EdgeDisabled(edge)).To(BeTrue())
		// Disabling the edge means runnable_left never applied; then keeps
		// its initial runnable flag.
		Expect(g.Flags(then).Has(graph.FlagRunnable)).To(BeTrue())
		Expect(sink.Warnings()).NotTo(BeEmpty())
	})

	It("leaves edges on the same node alone", func() {
		g := graph.NewGraph()
		first := g.AddAction("start", "", "node-a", graph.Flags(0))
		then := g.AddAction("start", "", "node-a", graph.FlagRunnable)
		edge := g.AddEdge(first, then, graph.OrderSameNode|graph.OrderRunnableLeft)

		g.UpdateAction(then, policy, sink, nil)

		Expect(g.EdgeDisabled(edge)).To(BeFalse())
		Expect(g.Flags(then).Has(graph.FlagRunnable)).To(BeFalse())
	})

	It("only ever clears flags, never sets them, outside the one_or_more exception", func() {
		g := graph.NewGraph()
		a := g.AddAction("notify", "", "", graph.Flags(0))
		b := g.AddAction("notify", "", "", graph.FlagRunnable|graph.FlagOptional)
		g.AddEdge(a, b, graph.OrderImpliesThen|graph.OrderRunnableLeft)

		before := g.Flags(b)
		g.UpdateAction(b, policy, sink, nil)
		after := g.Flags(b)

		Expect(after.Has(graph.FlagOptional)).To(BeFalse()) // a is required, so b's optional bit must clear
		Expect(before.Clear(after) | after).To(Equal(before), "after must be a subset of before")
	})

	It("terminates on a diamond-shaped graph without infinite requeuing", func() {
		g := graph.NewGraph()
		top := g.AddAction("notify", "", "", graph.Flags(0))
		left := g.AddAction("notify", "", "", graph.FlagRunnable)
		right := g.AddAction("notify", "", "", graph.FlagRunnable)
		bottom := g.AddAction("notify", "", "", graph.FlagRunnable)
		g.AddEdge(top, left, graph.OrderRunnableLeft)
		g.AddEdge(top, right, graph.OrderRunnableLeft)
		g.AddEdge(left, bottom, graph.OrderRunnableLeft)
		g.AddEdge(right, bottom, graph.OrderRunnableLeft)

		done := make(chan struct{})
		go func() {
			g.UpdateAction(bottom, policy, sink, nil)
			close(done)
		}()
		Eventually(done).Should(BeClosed())

		Expect(g.Flags(bottom).Has(graph.FlagRunnable)).To(BeFalse())
	})
})
