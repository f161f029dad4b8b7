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

// Variant distinguishes the resource kinds a Policy dispatches
// update-actions behavior across. It is a plain tagged value rather than
// an inheritance hierarchy: callers switch on it and index a table of
// function values instead of calling through virtual methods.
type Variant int

const (
	VariantPrimitive Variant = iota
	VariantGroup
	VariantClone
	VariantContainer
)

func (v Variant) String() string {
	switch v {
	case VariantPrimitive:
		return "primitive"
	case VariantGroup:
		return "group"
	case VariantClone:
		return "clone"
	case VariantContainer:
		return "container"
	default:
		return "unknown"
	}
}

// Policy is the resource-variant extension point the propagator delegates
// to whenever an ordering constraint touches an action that belongs to a
// resource. A primitive resource's policy typically applies the requested
// flag mask directly; group, clone and container resources use it to
// fan an edge out across their members.
//
// Implementations mutate the graph only through its exported ClearFlags
// (and, for requires_any bookkeeping, BumpRunnableBefore)
// and must report every side they changed so the propagation worklist
// can re-enqueue correctly; under-reporting a change breaks convergence,
// over-reporting only costs an extra no-op pass.
type Policy interface {
	// UpdateActions applies one order-kind bit's effect to the edge
	// between first and then. node, when non-empty, scopes the effect to
	// instances of a clone/group resource running on that node. mask is
	// the flags bit(s) being propagated (e.g. FlagOptional for
	// implies_then); firstFlags is first's flags as already filtered
	// for this viewpoint. kind identifies which ordering bit triggered
	// the call, since a variant may special-case it (e.g. a clone only
	// honors promoted_implies_first for a promote action).
	UpdateActions(g *Graph, first, then ActionID, node string, firstFlags, mask Flags, kind OrderKind) Changed

	// ActionFlags returns action's flags as observed from viewpointNode:
	// for a clone, "runnable" may be widened to whether any instance is
	// runnable, so ordering is not blocked by one instance alone.
	// viewpointNode == "" means no restriction.
	ActionFlags(g *Graph, action ActionID, viewpointNode string) Flags

	// Variant reports a resource's kind for dispatch purposes.
	Variant(resourceID string) Variant

	// Parent returns the containing resource ID for a member resource.
	Parent(resourceID string) (string, bool)

	// RunningOn returns the nodes a resource is currently active on.
	RunningOn(resourceID string) []string

	// StopBlocked reports whether a resource is unmanaged with a blocked
	// stop action, which forces any dependent action to remain
	// unrunnable regardless of ordinary propagation.
	StopBlocked(resourceID string) bool

	// ExpandAction maps an action belonging to a complex (group/clone/
	// container) resource onto the concrete action that should actually
	// participate in an ordering constraint — e.g. a group's "start"
	// expands to its "started" completion action. It returns the
	// same ActionID, unmodified, for primitives and already-expanded
	// actions.
	ExpandAction(g *Graph, action ActionID) ActionID

	// SameLocation reports whether two resources are constrained to run
	// on the same node, used when ordering is scoped to "on the same
	// node only" constraints between non-identical resources.
	SameLocation(a, b string) bool
}
