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

// Package memory is a reference, in-memory implementation of
// graph.Policy: it keeps resource metadata (variant, parent, managed
// state, current placement) and an index from (resource, task, node) to
// the action that represents it, and dispatches update-actions behavior
// across primitive, group, clone and container resources through a table
// of functions rather than an inheritance hierarchy.
package memory

import (
	"strings"

	"github.com/samber/lo"

	"github.com/clusterkit/schedcore/pkg/graph"
)

// Resource is the metadata a Policy needs about one resource: enough to
// decide variant dispatch, location constraints and blocked-stop
// handling. It does not model the resource's configuration itself, which
// is out of scope for the propagator.
type Resource struct {
	ID      string
	Variant graph.Variant
	Parent  string
	// Managed is false for a resource pacemaker-style tooling has taken
	// out of automated management; combined with Blocked it forces
	// dependents to stay unrunnable.
	Managed bool
	Blocked bool
	// RunningOn lists the nodes the resource is currently active on.
	RunningOn []string
	// Notify marks a resource whose composite actions (start, stop, ...)
	// wait on notification confirmation before being considered
	// complete.
	Notify bool
}

// ActionKey identifies one action instance by the resource it belongs to,
// its task, and (for multi-instance resources) the node it runs on.
type ActionKey struct {
	Resource string
	Task     string
	Node     string
}

// Store is a graph.Policy backed by plain Go maps. The zero value is not
// ready to use; construct with New.
type Store struct {
	resources map[string]*Resource
	byKey     map[ActionKey]graph.ActionID
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		resources: make(map[string]*Resource),
		byKey:     make(map[ActionKey]graph.ActionID),
	}
}

// AddResource registers a resource's metadata.
func (s *Store) AddResource(r Resource) { s.resources[r.ID] = &r }

// RegisterAction indexes an action under its (resource, task, node) key
// so ExpandAction and clone aggregation can find it later. Callers should
// call this once per action right after graph.Graph.AddAction.
func (s *Store) RegisterAction(key ActionKey, id graph.ActionID) { s.byKey[key] = id }

func (s *Store) resource(id string) (*Resource, bool) {
	r, ok := s.resources[id]
	return r, ok
}

// Variant implements graph.Policy.
func (s *Store) Variant(resourceID string) graph.Variant {
	if r, ok := s.resource(resourceID); ok {
		return r.Variant
	}
	return graph.VariantPrimitive
}

// Parent implements graph.Policy.
func (s *Store) Parent(resourceID string) (string, bool) {
	r, ok := s.resource(resourceID)
	if !ok || r.Parent == "" {
		return "", false
	}
	return r.Parent, true
}

// RunningOn implements graph.Policy.
func (s *Store) RunningOn(resourceID string) []string {
	if r, ok := s.resource(resourceID); ok {
		return r.RunningOn
	}
	return nil
}

// StopBlocked implements graph.Policy.
func (s *Store) StopBlocked(resourceID string) bool {
	r, ok := s.resource(resourceID)
	return ok && !r.Managed && r.Blocked
}

// SameLocation implements graph.Policy.
func (s *Store) SameLocation(a, b string) bool {
	ra, oka := s.resource(a)
	rb, okb := s.resource(b)
	if !oka || !okb || len(ra.RunningOn) == 0 || len(rb.RunningOn) == 0 {
		return false
	}
	return ra.RunningOn[0] == rb.RunningOn[0]
}

// ExpandAction implements graph.Policy: it rewrites an action belonging
// to a composite resource onto its completed-task form, if one is
// registered, leaving primitives and already-expanded actions untouched.
// Resources with notifications enabled resolve to the notification-
// confirmation form instead of the plain completed-task form, per
// spec.md §4.7;
// the plain form is tried as a fallback if no notify-confirmation action
// was registered for this instance.
func (s *Store) ExpandAction(g *graph.Graph, action graph.ActionID) graph.ActionID {
	resourceID := g.Resource(action)
	if resourceID == "" {
		return action
	}
	r, ok := s.resource(resourceID)
	if !ok || r.Variant == graph.VariantPrimitive {
		return action
	}
	completed, ok := graph.ExpandableUUID(g.Task(action), 0)
	if !ok {
		return action
	}
	node := g.Node(action)

	if r.Notify {
		notifyTask := strings.TrimPrefix(graph.NotifyConfirmationKey(resourceID, completed), resourceID+"_")
		if id, found := s.byKey[ActionKey{resourceID, notifyTask, node}]; found {
			return id
		}
		if id, found := s.byKey[ActionKey{resourceID, notifyTask, ""}]; found {
			return id
		}
	}

	if id, found := s.byKey[ActionKey{resourceID, completed, node}]; found {
		return id
	}
	if id, found := s.byKey[ActionKey{resourceID, completed, ""}]; found {
		return id
	}
	return action
}

// ActionFlags implements graph.Policy. For clone resources it widens
// "runnable" to "runnable on at least one instance", since ordering
// against a clone should not be blocked purely because the asking
// viewpoint is a single node. Groups and primitives return the action's
// flags unchanged.
func (s *Store) ActionFlags(g *graph.Graph, action graph.ActionID, viewpointNode string) graph.Flags {
	resourceID := g.Resource(action)
	flags := g.Flags(action)
	if resourceID == "" {
		return flags
	}
	r, ok := s.resource(resourceID)
	if !ok || r.Variant != graph.VariantClone {
		return flags
	}
	return s.cloneAggregateRunnable(g, resourceID, g.Task(action), flags)
}

// cloneAggregateRunnable is the private clone-runnable inflation the
// engine's ordering view relies on: it is not exposed beyond this
// package, since no other ordering decision should depend on "runnable
// anywhere" rather than an action's own recorded flags.
func (s *Store) cloneAggregateRunnable(g *graph.Graph, resourceID, task string, baseline graph.Flags) graph.Flags {
	if baseline.Has(graph.FlagRunnable) {
		return baseline
	}
	instances := lo.Filter(lo.Keys(s.byKey), func(key ActionKey, _ int) bool {
		return key.Resource == resourceID && key.Task == task
	})
	runnable := lo.SomeBy(instances, func(key ActionKey) bool {
		return g.Flags(s.byKey[key]).Has(graph.FlagRunnable)
	})
	return lo.Ternary(runnable, baseline.Set(graph.FlagRunnable), baseline)
}
