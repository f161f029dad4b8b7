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

package memory

import "github.com/clusterkit/schedcore/pkg/graph"

// UpdateActions implements graph.Policy. It resolves which side of the
// edge owns the mutation for kind, then dispatches the actual bit
// application across a resource's instances through a table of
// functions keyed by variant, rather than a method each variant type
// would override. node and mask are not consulted: kind alone selects the
// effect, and a clone or container applies it to every registered
// instance of the task regardless of node.
func (s *Store) UpdateActions(g *graph.Graph, first, then graph.ActionID, node string, firstFlags, mask graph.Flags, kind graph.OrderKind) graph.Changed {
	target := then
	targetIsFirst := kind == graph.OrderImpliesFirst
	if targetIsFirst {
		target = first
	}

	resourceID := g.Resource(target)
	variant := s.Variant(resourceID)

	fn, ok := updateActionsByVariant[variant]
	if !ok {
		fn = updatePrimitiveActions
	}
	return fn(s, g, resourceID, target, firstFlags, kind, targetIsFirst)
}

type updateActionsFunc func(s *Store, g *graph.Graph, resourceID string, target graph.ActionID, firstFlags graph.Flags, kind graph.OrderKind, targetIsFirst bool) graph.Changed

var updateActionsByVariant = map[graph.Variant]updateActionsFunc{
	graph.VariantPrimitive: updatePrimitiveActions,
	graph.VariantGroup:     updatePrimitiveActions, // a group's boundary action behaves like a single action once expanded
	graph.VariantClone:     updateFanoutActions,
	graph.VariantContainer: updateFanoutActions,
}

// applyBit applies one order-kind's effect to a single action, mirroring
// the generic (resource-less) branches in the propagator but now scoped
// to a resource-backed action. It returns whether the action's flags
// changed.
func applyBit(g *graph.Graph, id graph.ActionID, firstFlags graph.Flags, kind graph.OrderKind) bool {
	switch kind {
	case graph.OrderImpliesThen, graph.OrderPromotedImpliesFirst, graph.OrderImpliesFirstMigratable, graph.OrderPseudoLeft:
		if !firstFlags.Has(graph.FlagOptional) && g.Flags(id).Has(graph.FlagOptional) {
			return g.ClearFlags(id, graph.FlagOptional)
		}
	case graph.OrderRestart:
		var clear graph.Flags
		if !firstFlags.Has(graph.FlagOptional) && g.Flags(id).Has(graph.FlagOptional) {
			clear |= graph.FlagOptional
		}
		if !firstFlags.Has(graph.FlagRunnable) && g.Flags(id).Has(graph.FlagRunnable) {
			clear |= graph.FlagRunnable
		}
		if clear != 0 {
			return g.ClearFlags(id, clear)
		}
	case graph.OrderImpliesFirst:
		if !firstFlags.Has(graph.FlagOptional) && g.Flags(id).Has(graph.FlagRunnable) {
			return g.ClearFlags(id, graph.FlagRunnable)
		}
	case graph.OrderOneOrMore:
		if firstFlags.Has(graph.FlagRunnable) {
			return g.BumpRunnableBefore(id)
		}
	case graph.OrderAsymmetrical, graph.OrderRunnableLeft:
		if !firstFlags.Has(graph.FlagRunnable) && g.Flags(id).Has(graph.FlagRunnable) {
			return g.ClearFlags(id, graph.FlagRunnable)
		}
	}
	return false
}

func updatePrimitiveActions(s *Store, g *graph.Graph, resourceID string, target graph.ActionID, firstFlags graph.Flags, kind graph.OrderKind, targetIsFirst bool) graph.Changed {
	if applyBit(g, target, firstFlags, kind) {
		if targetIsFirst {
			return graph.ChangedFirst
		}
		return graph.ChangedThen
	}
	return graph.ChangedNone
}

// updateFanoutActions applies the bit to every instance of resourceID's
// task the target action represents, matching a clone or container's
// per-instance semantics: the ordering effect binds each instance
// independently rather than the resource as a whole.
func updateFanoutActions(s *Store, g *graph.Graph, resourceID string, target graph.ActionID, firstFlags graph.Flags, kind graph.OrderKind, targetIsFirst bool) graph.Changed {
	task := g.Task(target)
	var changed graph.Changed
	any := false
	for key, id := range s.byKey {
		if key.Resource != resourceID || key.Task != task {
			continue
		}
		if applyBit(g, id, firstFlags, kind) {
			any = true
		}
	}
	if any {
		if targetIsFirst {
			changed |= graph.ChangedFirst
		} else {
			changed |= graph.ChangedThen
		}
	}
	return changed
}
