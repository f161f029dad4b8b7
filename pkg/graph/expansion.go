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

import "strings"

// ExpandedTask maps a requested (not-yet-complete) task to the action
// that actually reflects its outcome for a composite (group, clone or
// container) resource: ordering against "start" a multi-instance resource
// really means ordering against all instances having reached "started".
// It returns false for tasks with no completed form (monitor, notify
// itself, node-level actions).
func ExpandedTask(task string) (string, bool) {
	switch task {
	case "start":
		return "started", true
	case "stop":
		return "stopped", true
	case "promote":
		return "promoted", true
	case "demote":
		return "demoted", true
	default:
		return "", false
	}
}

// ExpandableUUID reports the completed-task action a composite resource's
// action should be looked up by, for a zero-interval, non-notify action.
// intervalMS > 0 (a recurring monitor) and notify actions are never
// expanded, matching the source task's early-outs.
func ExpandableUUID(task string, intervalMS int) (string, bool) {
	if intervalMS > 0 || strings.Contains(task, "notify") {
		return "", false
	}
	return ExpandedTask(task)
}

// NotifyConfirmationKey names the pseudo-action a composite resource's
// notification mechanism waits on before considering a task's completed
// form satisfied, for resources that have notifications enabled. It
// mirrors pcmk__notify_key(rid, "confirmed-post", completedTask): the
// resource ID, the "confirmed-post" notification type, a literal "notify"
// segment, the completed task, and the "_0" interval suffix every
// zero-interval action key carries.
func NotifyConfirmationKey(resourceID, completedTask string) string {
	return resourceID + "_confirmed-post_notify_" + completedTask + "_0"
}
