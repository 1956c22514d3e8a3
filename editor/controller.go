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

package editor

import (
	"fmt"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/view"
)

// A Controller binds a level to one view and turns pointer gestures into
// level updates. A drag marks a pending region; releasing commits it as a
// selection that a later Place fills with a brush.
type Controller struct {
	level      *level.Level
	view       view.View
	dragging   bool
	anchor     [2]int
	pending    *grid.Region
	selections []grid.Region
}

func NewController(l *level.Level, v view.View) *Controller {
	return &Controller{level: l, view: v}
}

func (c *Controller) Level() *level.Level {
	return c.level
}

func (c *Controller) View() view.View {
	return c.view
}

// Insert attaches the view under parent.
func (c *Controller) Insert(parent *view.Node) error {
	return c.view.Attach(parent)
}

// Remove detaches the view.
func (c *Controller) Remove() error {
	return c.view.Detach()
}

func (c *Controller) clamp(x, y int) (int, int, error) {
	w, h := c.level.Width(), c.level.Height()
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("%w: empty level", grid.ErrOutOfRange)
	}
	return max(0, min(x, w-1)), max(0, min(y, h-1)), nil
}

// Press starts a drag at (x,y).
func (c *Controller) Press(x, y int) error {
	x, y, err := c.clamp(x, y)
	if err != nil {
		return err
	}
	if err := c.clearPending(); err != nil {
		return err
	}
	c.dragging = true
	c.anchor = [2]int{x, y}
	return c.Drag(x, y)
}

// Drag moves the pending region's far corner to (x,y).
func (c *Controller) Drag(x, y int) error {
	if !c.dragging {
		return nil
	}
	x, y, err := c.clamp(x, y)
	if err != nil {
		return err
	}
	if err := c.clearPending(); err != nil {
		return err
	}
	r := grid.NewRegion(c.anchor[0], c.anchor[1], x, y)
	if err := c.level.UpdateRegion(r, level.Patch{level.SelectPending(true)}); err != nil {
		return err
	}
	c.pending = &r
	return nil
}

func (c *Controller) clearPending() error {
	if c.pending == nil {
		return nil
	}
	r := *c.pending
	c.pending = nil
	if !r.Within(c.level.Width(), c.level.Height()) {
		return nil
	}
	return c.level.UpdateRegion(r, level.Patch{level.SelectPending(false)})
}

// Release commits the pending region as a selection.
func (c *Controller) Release() error {
	if !c.dragging {
		return nil
	}
	c.dragging = false
	if c.pending == nil {
		return nil
	}
	r := *c.pending
	c.pending = nil
	if !r.Within(c.level.Width(), c.level.Height()) {
		return nil
	}
	c.selections = append(c.selections, r)
	return c.level.UpdateRegion(r, level.Patch{level.Selected(true), level.SelectPending(false)})
}

// Cancel abandons a drag in progress.
func (c *Controller) Cancel() error {
	c.dragging = false
	return c.clearPending()
}

func (c *Controller) Dragging() bool {
	return c.dragging
}

// Selections returns the committed regions, oldest first.
func (c *Controller) Selections() []grid.Region {
	return append([]grid.Region(nil), c.selections...)
}

// Place writes brush into every cell of the recorded selections that is
// still selected, then clears the selection marks of each region that had one.
func (c *Controller) Place(brush level.Brush) error {
	if _, err := brush.Info(); err != nil {
		return err
	}
	value := level.Patch{level.Value(brush)}
	for _, r := range c.selections {
		placed := false
		var err error
		r.ForEach(func(x, y int) {
			if err != nil {
				return
			}
			cell, peekErr := c.level.Peek(x, y)
			if peekErr != nil || cell == nil || !cell.Selected {
				return
			}
			placed = true
			err = c.level.Update(x, y, value)
		})
		if err != nil {
			return err
		}
		visible, ok := c.visible(r)
		if !placed || !ok {
			continue
		}
		if err := c.level.UpdateRegion(visible, level.Patch{level.Selected(false)}); err != nil {
			return err
		}
	}
	return nil
}

// visible clips r to the level, reporting false when nothing is left.
func (c *Controller) visible(r grid.Region) (grid.Region, bool) {
	b := r.Bounds()
	x1, y1 := max(b.X1, 0), max(b.Y1, 0)
	x2, y2 := min(b.X2, c.level.Width()-1), min(b.Y2, c.level.Height()-1)
	if x1 > x2 || y1 > y2 {
		return grid.Region{}, false
	}
	return grid.NewRegion(x1, y1, x2, y2), true
}
