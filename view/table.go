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

package view

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/timburks/fortplan/level"
)

// Class names applied to table cells.
const (
	ClassSelected      = "selected"
	ClassSelectPending = "select_pending"
)

// A TableView shows a level as a table of cell nodes, one row node per grid row.
type TableView struct {
	level    *level.Level
	root     *Node
	rows     []*Node
	shadow   *Shadow[*Node]
	listener *level.Listener
	attached bool
	logger   zerolog.Logger
}

func NewTableView(l *level.Level, logger zerolog.Logger) *TableView {
	v := &TableView{
		level:  l,
		root:   NewNode("table"),
		logger: logger.With().Str("view", "table").Int("level", l.ID()).Logger(),
	}
	v.shadow = NewShadow[*Node](tableRows{v})
	v.listener = &level.Listener{
		Cells: v.cellChanged,
		Size:  v.sizeChanged,
	}
	return v
}

func (v *TableView) Root() *Node {
	return v.root
}

func (v *TableView) Level() *level.Level {
	return v.level
}

// Cell returns the node showing (x,y).
func (v *TableView) Cell(x, y int) (*Node, error) {
	return v.shadow.Handle(x, y)
}

// Size returns the dimensions the view currently shows.
func (v *TableView) Size() (int, int) {
	return v.shadow.Width(), v.shadow.Height()
}

func (v *TableView) Attach(parent *Node) error {
	if v.attached {
		return ErrAttached
	}
	err := v.Render()
	parent.AppendChild(v.root)
	v.level.Listen(v.listener)
	v.attached = true
	return err
}

func (v *TableView) Detach() error {
	if !v.attached {
		return ErrNotAttached
	}
	v.level.Unlisten(v.listener)
	v.root.Remove()
	v.attached = false
	return nil
}

// Render discards every row and builds the table again.
func (v *TableView) Render() error {
	if err := v.shadow.Sync(0, 0); err != nil {
		return err
	}
	return v.shadow.Sync(v.level.Width(), v.level.Height())
}

func (v *TableView) cellChanged(x, y int, c *level.Cell) error {
	n, err := v.shadow.Handle(x, y)
	if err != nil {
		return fmt.Errorf("table cell: %w", err)
	}
	return decorate(n, c)
}

func (v *TableView) sizeChanged() error {
	fromW, fromH := v.Size()
	err := v.shadow.Sync(v.level.Width(), v.level.Height())
	v.logger.Debug().
		Int("from_width", fromW).Int("from_height", fromH).
		Int("width", v.level.Width()).Int("height", v.level.Height()).
		Msg("resized")
	return err
}

// decorate sets the classes and text of a cell node from c.
func decorate(n *Node, c *level.Cell) error {
	info, err := c.Info()
	if err != nil {
		n.SetClasses()
		n.Text = ""
		return fmt.Errorf("cell %s: %w", n.Title, err)
	}
	var classes []string
	if c != nil && c.Selected {
		classes = append(classes, ClassSelected)
	}
	if c != nil && c.SelectPending {
		classes = append(classes, ClassSelectPending)
	}
	if info.Class != "" {
		classes = append(classes, info.Class)
	}
	n.SetClasses(classes...)
	n.Text = info.Code
	return nil
}

// tableRows materializes shadow handles as row and cell nodes.
type tableRows struct {
	v *TableView
}

func (t tableRows) AddRow(y int) {
	row := NewNode("tr")
	t.v.root.AppendChild(row)
	t.v.rows = append(t.v.rows, row)
}

func (t tableRows) AddCell(x, y int) (*Node, error) {
	n := NewNode("td")
	n.Title = fmt.Sprintf("(%d,%d)", x, y)
	t.v.rows[y].AppendChild(n)
	c, err := t.v.level.Peek(x, y)
	if err != nil {
		return n, err
	}
	return n, decorate(n, c)
}

func (t tableRows) RemoveCell(x, y int, n *Node) {
	if n != nil {
		n.Remove()
	}
}

func (t tableRows) RemoveRow(y int) {
	t.v.rows[y].Remove()
	t.v.rows = t.v.rows[:y]
}
