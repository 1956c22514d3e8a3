//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package view keeps render trees and raster images in step with a level.
//
// Views subscribe to a level when attached and apply the smallest change
// that each notification implies. They never modify the level.
package view

import (
	"errors"
	"image"
	"slices"
)

var (
	// ErrNotAttached is returned when detaching a view that is not attached.
	ErrNotAttached = errors.New("view not attached")
	// ErrAttached is returned when attaching a view twice.
	ErrAttached = errors.New("view already attached")
)

// A Node is an element of a render tree owned by a front end.
type Node struct {
	Tag   string
	Title string
	Text  string
	// Image is set on nodes that display a raster.
	Image image.Image

	classes  []string
	parent   *Node
	children []*Node
}

func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i'th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child and reports whether it belonged to n.
func (n *Node) RemoveChild(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

func (n *Node) SetClasses(classes ...string) {
	n.classes = append(n.classes[:0], classes...)
}

func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// A View presents one level inside a render tree.
type View interface {
	// Attach renders the view, inserts its root under parent and subscribes
	// to the level.
	Attach(parent *Node) error
	// Detach unsubscribes and removes the root from its parent.
	Detach() error
	// Render rebuilds the whole view from the level.
	Render() error
	Root() *Node
}
