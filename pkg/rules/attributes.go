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

// Attributes is the narrow surface the engine consults on a configuration
// element-tree node. It is deliberately small: name/value attribute lookup
// plus one named-child lookup, matching exactly what the engine reads from
// the external configuration model (spec §6). Implementations may wrap XML,
// YAML, or any other tree-shaped configuration representation.
type Attributes interface {
	// Attr returns the named attribute's value and whether it was present.
	Attr(name string) (string, bool)
	// FirstChild returns the first child element with the given name.
	FirstChild(name string) (Attributes, bool)
}

// MapAttributes is a reference Attributes implementation backed by a flat
// map plus named children, useful for tests and for callers whose
// configuration is already decoded into generic maps.
type MapAttributes struct {
	Attrs    map[string]string
	Children map[string]Attributes
}

func (m MapAttributes) Attr(name string) (string, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

func (m MapAttributes) FirstChild(name string) (Attributes, bool) {
	c, ok := m.Children[name]
	return c, ok
}
