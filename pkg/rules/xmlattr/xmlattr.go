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

// Package xmlattr adapts encoding/xml-decoded configuration onto
// rules.Attributes, for callers whose date_expression/rule elements
// still arrive as an XML-shaped configuration base (the format the
// engine's rule and date_expression elements were originally expressed
// in).
package xmlattr

import (
	"encoding/xml"

	"github.com/clusterkit/schedcore/pkg/rules"
)

// Node is a generic XML element: its own attributes plus its direct
// child elements, decoded without a fixed schema. Unmarshal a document
// into Node to get an rules.Attributes-compatible tree regardless of
// which element names appear.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
}

// Attr implements rules.Attributes.
func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// FirstChild implements rules.Attributes.
func (n Node) FirstChild(name string) (rules.Attributes, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return nil, false
}

var _ rules.Attributes = Node{}
