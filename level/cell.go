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

package level

// A Cell holds the attributes painted onto one map coordinate.
type Cell struct {
	Selected      bool  `json:"selected,omitempty"`
	SelectPending bool  `json:"select_pending,omitempty"`
	Value         Brush `json:"value,omitempty"`
}

// Clone returns a copy of c, or nil for a nil cell.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

// Highlighted reports whether the cell is selected or pending selection.
func (c *Cell) Highlighted() bool {
	return c != nil && (c.Selected || c.SelectPending)
}

// Info resolves the brush painted on the cell. Cells without a value resolve to BrushClear.
func (c *Cell) Info() (BrushInfo, error) {
	if c == nil || c.Value == "" {
		return BrushClear.Info()
	}
	return c.Value.Info()
}

// An Attribute is one settable property of a Cell.
type Attribute interface {
	apply(c *Cell)
}

// Selected sets Cell.Selected.
type Selected bool

// SelectPending sets Cell.SelectPending.
type SelectPending bool

// Value sets Cell.Value.
type Value Brush

func (a Selected) apply(c *Cell)      { c.Selected = bool(a) }
func (a SelectPending) apply(c *Cell) { c.SelectPending = bool(a) }
func (a Value) apply(c *Cell)         { c.Value = Brush(a) }

// A Patch is a partial update. Attributes are applied in order, so a later
// attribute of the same kind wins. False and empty values are applied too.
type Patch []Attribute

// Apply merges the patch into c.
func (p Patch) Apply(c *Cell) {
	for _, a := range p {
		a.apply(c)
	}
}

// Brush returns the last Value in the patch.
func (p Patch) Brush() (Brush, bool) {
	var b Brush
	found := false
	for _, a := range p {
		if v, ok := a.(Value); ok {
			b = Brush(v)
			found = true
		}
	}
	return b, found
}
