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

import "github.com/clusterkit/schedcore/pkg/moment"

// Watermark is the caller-owned "next change" sink: the earliest future
// moment at which some rule's result is known to flip. The engine only ever
// lowers it, never raises it, and only when a transition point is known
// deterministically.
type Watermark struct {
	set   bool
	value moment.Moment
}

// NewWatermark returns an empty watermark with nothing recorded yet.
func NewWatermark() *Watermark {
	return &Watermark{}
}

// SetIfEarlier updates the watermark only if it is unset or candidate is
// strictly earlier than the current value. This is the only mutation the
// rule engine performs outside of returning a Result.
func (w *Watermark) SetIfEarlier(candidate moment.Moment) {
	if w == nil {
		return
	}
	if !w.set || candidate.Before(w.value) {
		w.value = candidate
		w.set = true
	}
}

// Value returns the current watermark and whether it has ever been set.
func (w *Watermark) Value() (moment.Moment, bool) {
	if w == nil {
		return moment.Moment{}, false
	}
	return w.value, w.set
}
