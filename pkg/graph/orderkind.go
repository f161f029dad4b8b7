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

package graph

// OrderKind is an edge's bitset of ordering semantics. An edge can carry
// more than one kind bit; applyEdge applies each bit's transfer
// rule independently, in a fixed priority order, to the same (first, then)
// pair.
type OrderKind uint32

const OrderNone OrderKind = 0

const (
	// OrderImpliesThen: if first is required (not optional), then becomes
	// required too (loses FlagOptional).
	OrderImpliesThen OrderKind = 1 << iota
	// OrderImpliesFirst: first may not print/execute unless then does.
	OrderImpliesFirst
	// OrderRestart: a stop/start pair belonging to the same restart; then
	// inherits first's runnability unconditionally.
	OrderRestart
	// OrderPromotedImpliesFirst: like OrderImpliesFirst, but only applies
	// when then's task is a promote.
	OrderPromotedImpliesFirst
	// OrderOneOrMore: then requires only a configurable number of its
	// OrderOneOrMore predecessors to be runnable, not all of them.
	OrderOneOrMore
	// OrderProbe: ordering introduced by a resource probe; then is
	// unaffected if first's result turns out to be that the resource is
	// already in the desired state.
	OrderProbe
	// OrderRunnableLeft: then is runnable only if first is runnable.
	OrderRunnableLeft
	// OrderImpliesFirstMigratable: like OrderImpliesFirst, but only binds
	// when then is migratable.
	OrderImpliesFirstMigratable
	// OrderPseudoLeft: then becomes pseudo if first is pseudo.
	OrderPseudoLeft
	// OrderOptional: the constraint itself is advisory and never disables
	// then or marks it unrunnable; used for ordering display only.
	OrderOptional
	// OrderAsymmetrical: the constraint applies only when both actions are
	// being scheduled on the same transition, not merely reasoned about.
	OrderAsymmetrical
	// OrderImpliesThenPrinted: then must be printed in the graph output if
	// first is.
	OrderImpliesThenPrinted
	// OrderImpliesFirstPrinted: first must be printed in the graph output
	// if then is.
	OrderImpliesFirstPrinted
	// OrderImpliesThenOnNode: treated as OrderImpliesThen, with the node
	// passed to the policy pinned to first's node.
	OrderImpliesThenOnNode
	// OrderSameNode: first and then must end up on the same node, or the
	// edge is disabled.
	OrderSameNode
	// OrderThenCancelsFirst: if then is required (not optional), a
	// resource-backed first is marked optional.
	OrderThenCancelsFirst
)

func (k OrderKind) Has(mask OrderKind) bool { return k&mask == mask }
func (k OrderKind) Any(mask OrderKind) bool { return k&mask != 0 }

func (k OrderKind) String() string {
	names := []struct {
		bit  OrderKind
		name string
	}{
		{OrderImpliesThen, "implies_then"},
		{OrderImpliesFirst, "implies_first"},
		{OrderRestart, "restart"},
		{OrderPromotedImpliesFirst, "promoted_implies_first"},
		{OrderOneOrMore, "one_or_more"},
		{OrderProbe, "probe"},
		{OrderRunnableLeft, "runnable_left"},
		{OrderImpliesFirstMigratable, "implies_first_migratable"},
		{OrderPseudoLeft, "pseudo_left"},
		{OrderOptional, "optional"},
		{OrderAsymmetrical, "asymmetrical"},
		{OrderImpliesThenPrinted, "implies_then_printed"},
		{OrderImpliesFirstPrinted, "implies_first_printed"},
		{OrderImpliesThenOnNode, "implies_then_on_node"},
		{OrderSameNode, "same_node"},
		{OrderThenCancelsFirst, "then_cancels_first"},
	}
	out := ""
	for _, n := range names {
		if k.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// Changed reports which side of an edge (or the edge itself) a single
// application of applyEdge mutated. The propagation driver uses it
// to decide what to re-enqueue.
type Changed uint8

const ChangedNone Changed = 0

const (
	ChangedFirst Changed = 1 << iota
	ChangedThen
	ChangedDisable
)

func (c Changed) Has(mask Changed) bool { return c&mask == mask }
func (c Changed) Any(mask Changed) bool { return c&mask != 0 }
