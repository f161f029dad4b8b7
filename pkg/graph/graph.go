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

// ActionID addresses an action within a Graph's arena. The zero value is
// not a valid action; IDs are assigned sequentially by AddAction starting
// at 1, so a zero-valued ActionID can double as "no action" in callers
// that need one.
type ActionID int

// EdgeID addresses an edge within a Graph's arena.
type EdgeID int

type actionRecord struct {
	id       ActionID
	task     string
	resource string
	node     string
	flags    Flags
	// before holds the edges whose "then" is this action (its
	// predecessors); after holds the edges whose "first" is this action
	// (its successors). Both are insertion-ordered.
	before []EdgeID
	after  []EdgeID

	// runnableBefore/requiredRunnableBefore back the requires_any /
	// one_or_more bookkeeping: a FlagRequiresAny action only becomes
	// runnable once at least requiredRunnableBefore of its predecessors
	// (connected via an OrderOneOrMore edge) are runnable.
	runnableBefore         int
	requiredRunnableBefore int
}

type edgeRecord struct {
	id    EdgeID
	first ActionID
	then  ActionID
	kind  OrderKind
	// disabled marks an edge that propagation has determined can never
	// fire (OrderSameNode violated, or an OrderProbe edge whose first
	// resource is already running). Disabled edges are skipped by future
	// propagation passes but never removed, preserving edge identity for
	// callers holding an EdgeID.
	disabled bool
}

// Graph is an arena of actions and ordering edges. The zero value is an
// empty, ready-to-use graph.
type Graph struct {
	actions []actionRecord
	edges   []edgeRecord
}

// NewGraph returns an empty graph.
func NewGraph() *Graph { return &Graph{} }

// AddAction appends a new action with the given task, resource (empty for
// a pseudo/resource-less action) and initial flags, and returns its
// handle. The action starts with no edges.
func (g *Graph) AddAction(task, resource, node string, flags Flags) ActionID {
	id := ActionID(len(g.actions) + 1)
	g.actions = append(g.actions, actionRecord{
		id:       id,
		task:     task,
		resource: resource,
		node:     node,
		flags:    flags,
	})
	return id
}

// AddEdge records an ordering constraint "first then then" of the given
// kind and returns its handle. Adding an edge with kind OrderNone is a
// caller error and panics, since it could never carry any propagation
// effect.
func (g *Graph) AddEdge(first, then ActionID, kind OrderKind) EdgeID {
	if kind == OrderNone {
		panic("graph: AddEdge called with OrderNone")
	}
	id := EdgeID(len(g.edges) + 1)
	g.edges = append(g.edges, edgeRecord{id: id, first: first, then: then, kind: kind})
	g.action(then).before = append(g.action(then).before, id)
	g.action(first).after = append(g.action(first).after, id)
	return id
}

func (g *Graph) action(id ActionID) *actionRecord {
	if id < 1 || int(id) > len(g.actions) {
		panic("graph: invalid ActionID")
	}
	return &g.actions[id-1]
}

func (g *Graph) edge(id EdgeID) *edgeRecord {
	if id < 1 || int(id) > len(g.edges) {
		panic("graph: invalid EdgeID")
	}
	return &g.edges[id-1]
}

// Task returns an action's task name.
func (g *Graph) Task(id ActionID) string { return g.action(id).task }

// Resource returns an action's resource ID, or "" if the action is not
// tied to a resource (a pseudo action).
func (g *Graph) Resource(id ActionID) string { return g.action(id).resource }

// Node returns the node an action is slated to run on, or "" if unset.
func (g *Graph) Node(id ActionID) string { return g.action(id).node }

// Flags returns an action's current flag bits.
func (g *Graph) Flags(id ActionID) Flags { return g.action(id).flags }

// ClearFlags clears every bit in mask on the given action and reports
// whether doing so actually changed anything. Propagation otherwise only
// clears flags; the exceptions, which go through setFlags, are the
// one_or_more / requires_any restoration of FlagRunnable, FlagPrintAlways
// from the two printed kinds, and FlagOptional on first for
// OrderThenCancelsFirst.
func (g *Graph) ClearFlags(id ActionID, mask Flags) bool {
	a := g.action(id)
	before := a.flags
	a.flags = a.flags.Clear(mask)
	return a.flags != before
}

func (g *Graph) setFlags(id ActionID, mask Flags) bool {
	a := g.action(id)
	before := a.flags
	a.flags = a.flags.Set(mask)
	return a.flags != before
}

// EdgeKind returns an edge's ordering kind bitset.
func (g *Graph) EdgeKind(id EdgeID) OrderKind { return g.edge(id).kind }

// EdgeEndpoints returns the (first, then) actions an edge connects.
func (g *Graph) EdgeEndpoints(id EdgeID) (first, then ActionID) {
	e := g.edge(id)
	return e.first, e.then
}

// EdgeDisabled reports whether an edge has been permanently disabled by
// propagation.
func (g *Graph) EdgeDisabled(id EdgeID) bool { return g.edge(id).disabled }

func (g *Graph) disableEdge(id EdgeID) bool {
	e := g.edge(id)
	if e.disabled {
		return false
	}
	e.disabled = true
	return true
}

// Before returns the edges whose "then" is the given action, i.e. its
// predecessors, in insertion order.
func (g *Graph) Before(id ActionID) []EdgeID { return g.action(id).before }

// After returns the edges whose "first" is the given action, i.e. its
// successors, in insertion order.
func (g *Graph) After(id ActionID) []EdgeID { return g.action(id).after }

// RequiredRunnableBefore returns how many runnable predecessors a
// requires-any action needs before it becomes runnable itself.
func (g *Graph) RequiredRunnableBefore(id ActionID) int { return g.action(id).requiredRunnableBefore }

// SetRequiredRunnableBefore configures the requires-any threshold for an
// action. A value of 0 is treated as 1 when the action carries
// FlagRequiresAny, for backward compatibility with callers that only set
// the flag.
func (g *Graph) SetRequiredRunnableBefore(id ActionID, n int) { g.action(id).requiredRunnableBefore = n }

// RunnableBefore returns how many runnable predecessors have been counted
// for a requires-any action so far in the current propagation pass.
func (g *Graph) RunnableBefore(id ActionID) int { return g.action(id).runnableBefore }

func (g *Graph) resetRunnableBefore(id ActionID) { g.action(id).runnableBefore = 0 }
func (g *Graph) incRunnableBefore(id ActionID)   { g.action(id).runnableBefore++ }

// BumpRunnableBefore increments a requires-any action's runnable-predecessor
// count and, if that now meets its threshold, sets FlagRunnable. It
// reports whether the action's flags changed. Policy implementations call
// this from UpdateActions when a resource-backed action is connected via
// an OrderOneOrMore edge, mirroring the bookkeeping the engine itself
// performs for resource-less actions.
func (g *Graph) BumpRunnableBefore(id ActionID) bool {
	g.incRunnableBefore(id)
	if g.RunnableBefore(id) >= g.RequiredRunnableBefore(id) && !g.Flags(id).Has(FlagRunnable) {
		return g.setFlags(id, FlagRunnable)
	}
	return false
}

// Actions returns every action handle currently in the graph, in
// insertion order.
func (g *Graph) Actions() []ActionID {
	out := make([]ActionID, len(g.actions))
	for i := range g.actions {
		out[i] = g.actions[i].id
	}
	return out
}
