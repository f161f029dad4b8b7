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

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/clusterkit/schedcore/pkg/logging"
)

// Observer receives propagation events for instrumentation. A nil
// Observer is valid everywhere one is accepted; callers that don't care
// about metrics pass nil.
type Observer interface {
	PassProcessed()
	EdgeDisabled(kind OrderKind)
}

// applyEdge applies every order-kind bit carried by kind, in priority
// order, to a single (first, then) pair. node scopes clone/group
// delegation to a particular node (empty means unrestricted). It returns
// which side(s) of the pair changed, or ChangedDisable if the edge should
// never be considered again.
func (g *Graph) applyEdge(first, then ActionID, node string, firstFlags, thenFlags Flags, kind OrderKind, policy Policy) Changed {
	var changed Changed

	if kind.Has(OrderImpliesThenOnNode) {
		// Restrict the usual "whole resource" scope to first's node
		// (used for unfencing-style ordering), then treat the rest of
		// this pass exactly like OrderImpliesThen.
		kind = (kind &^ OrderImpliesThenOnNode) | OrderImpliesThen
		node = g.Node(first)
	}

	if kind.Has(OrderImpliesThen) {
		if g.Resource(then) != "" {
			changed |= policy.UpdateActions(g, first, then, node, firstFlags&FlagOptional, FlagOptional, OrderImpliesThen)
		} else if !firstFlags.Has(FlagOptional) && g.Flags(then).Has(FlagOptional) {
			if g.ClearFlags(then, FlagOptional) {
				changed |= ChangedThen
			}
		}
	}

	if kind.Has(OrderRestart) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagOptional|FlagRunnable, OrderRestart)
	}

	if kind.Has(OrderImpliesFirst) {
		if g.Resource(first) != "" {
			changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagOptional, OrderImpliesFirst)
		} else if !firstFlags.Has(FlagOptional) && g.Flags(first).Has(FlagRunnable) {
			if g.ClearFlags(first, FlagRunnable) {
				changed |= ChangedFirst
			}
		}
	}

	if kind.Has(OrderPromotedImpliesFirst) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags&FlagOptional, FlagOptional, OrderPromotedImpliesFirst)
	}

	if kind.Has(OrderOneOrMore) {
		if g.Resource(then) != "" {
			changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagRunnable, OrderOneOrMore)
		} else if firstFlags.Has(FlagRunnable) {
			g.incRunnableBefore(then)
			if g.RunnableBefore(then) >= g.RequiredRunnableBefore(then) && !g.Flags(then).Has(FlagRunnable) {
				if g.setFlags(then, FlagRunnable) {
					changed |= ChangedThen
				}
			}
		}
	}

	if g.Resource(then) != "" && kind.Has(OrderProbe) {
		if !firstFlags.Has(FlagRunnable) && len(policy.RunningOn(g.Resource(first))) > 0 {
			changed |= ChangedDisable
		} else {
			changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagRunnable, OrderRunnableLeft)
		}
	}

	if kind.Has(OrderRunnableLeft) {
		if g.Resource(then) != "" {
			changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagRunnable, OrderRunnableLeft)
		} else if !firstFlags.Has(FlagRunnable) && g.Flags(then).Has(FlagRunnable) {
			if g.ClearFlags(then, FlagRunnable) {
				changed |= ChangedThen
			}
		}
	}

	if kind.Has(OrderImpliesFirstMigratable) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagOptional, OrderImpliesFirstMigratable)
	}

	if kind.Has(OrderPseudoLeft) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagOptional, OrderPseudoLeft)
	}

	if kind.Has(OrderOptional) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagRunnable, OrderOptional)
	}

	if kind.Has(OrderAsymmetrical) && g.Resource(then) != "" {
		changed |= policy.UpdateActions(g, first, then, node, firstFlags, FlagRunnable, OrderAsymmetrical)
	}

	if g.Flags(first).Has(FlagRunnable) && kind.Has(OrderImpliesThenPrinted) && !firstFlags.Has(FlagOptional) {
		g.setFlags(then, FlagPrintAlways)
	}

	if kind.Has(OrderImpliesFirstPrinted) && !thenFlags.Has(FlagOptional) {
		g.setFlags(first, FlagPrintAlways)
	}

	blockedStopChain := kind.Has(OrderImpliesThen) || kind.Has(OrderImpliesFirst) || kind.Has(OrderRestart)
	if blockedStopChain && g.Resource(first) != "" && g.Task(first) == "stop" &&
		policy.StopBlocked(g.Resource(first)) && !g.Flags(first).Has(FlagRunnable) {
		if g.Flags(then).Has(FlagRunnable) {
			if g.ClearFlags(then, FlagRunnable) {
				changed |= ChangedThen
			}
		}
	}

	return changed
}

// UpdateAction drives the fix-point propagation starting from then: it
// applies every incoming edge's ordering effect, and keeps processing
// whatever actions those effects touch until nothing changes anywhere. A
// worklist replaces the source algorithm's recursive re-entry so deep
// ordering chains don't grow the call stack.
//
// Forward propagation alone (reprocessing an action's successors whenever
// it changes) only converges a chain that starts already-settled: calling
// UpdateAction on a sink whose predecessors haven't been visited yet would
// see their stale flags and conclude nothing changed. So before an edge is
// evaluated, its "first" side is settled first (recursively, guarded by
// visited so a cycle can't recurse forever) — then forwards from there as
// before once something actually changes.
func (g *Graph) UpdateAction(then ActionID, policy Policy, sink logging.Sink, obs Observer) {
	queue := []ActionID{then}
	pending := sets.New[ActionID](then)
	visited := sets.New[ActionID]()

	enqueue := func(id ActionID) {
		if !pending.Has(id) {
			pending.Insert(id)
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		pending.Delete(cur)
		if obs != nil {
			obs.PassProcessed()
		}
		g.updateOne(cur, policy, sink, obs, enqueue, visited)
	}
}

func (g *Graph) updateOne(then ActionID, policy Policy, sink logging.Sink, obs Observer, enqueue func(ActionID), visited sets.Set[ActionID]) {
	visited.Insert(then)

	lastFlags := g.Flags(then)
	requiresAny := lastFlags.Has(FlagRequiresAny)
	if requiresAny {
		g.resetRunnableBefore(then)
		if g.RequiredRunnableBefore(then) == 0 {
			g.SetRequiredRunnableBefore(then, 1)
		}
		g.ClearFlags(then, FlagRunnable)
	}

	thenChanged := false

	for _, edgeID := range g.Before(then) {
		if g.EdgeDisabled(edgeID) {
			continue
		}
		first, _ := g.EdgeEndpoints(edgeID)
		kind := g.EdgeKind(edgeID)

		resolvedFirst := policy.ExpandAction(g, first)

		if !visited.Has(resolvedFirst) {
			g.updateOne(resolvedFirst, policy, sink, obs, enqueue, visited)
		}

		firstNode := g.Node(resolvedFirst)
		thenNode := g.Node(then)

		if kind.Has(OrderSameNode) && firstNode != "" && thenNode != "" && firstNode != thenNode {
			g.disableEdge(edgeID)
			sink.Warnf("disabled ordering %s then %s: not on the same node", g.Task(resolvedFirst), g.Task(then))
			if obs != nil {
				obs.EdgeDisabled(OrderSameNode)
			}
			continue
		}

		if g.Resource(resolvedFirst) != "" && kind.Has(OrderThenCancelsFirst) && !g.Flags(then).Has(FlagOptional) {
			g.setFlags(resolvedFirst, FlagOptional)
		}

		firstFlags := policy.ActionFlags(g, resolvedFirst, thenNode)
		thenFlags := policy.ActionFlags(g, then, firstNode)

		changed := g.applyEdge(resolvedFirst, then, thenNode, firstFlags, thenFlags, kind, policy)

		if changed.Has(ChangedDisable) {
			g.disableEdge(edgeID)
			if obs != nil {
				obs.EdgeDisabled(kind)
			}
		}
		if changed.Has(ChangedThen) {
			thenChanged = true
		}
		if changed.Has(ChangedFirst) {
			for _, succEdge := range g.After(resolvedFirst) {
				if g.EdgeDisabled(succEdge) {
					continue
				}
				_, succThen := g.EdgeEndpoints(succEdge)
				enqueue(succThen)
			}
			enqueue(resolvedFirst)
		}
	}

	if requiresAny {
		thenChanged = g.Flags(then) != lastFlags
	}

	if thenChanged {
		enqueue(then)
		for _, succEdge := range g.After(then) {
			if g.EdgeDisabled(succEdge) {
				continue
			}
			_, succThen := g.EdgeEndpoints(succEdge)
			enqueue(succThen)
		}
	}
}
