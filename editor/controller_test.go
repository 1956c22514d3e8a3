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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/view"
)

func newController(t *testing.T, w, h int) (*Controller, *level.Level) {
	t.Helper()
	l, err := level.NewLevel(level.NewIDSource(), w, h)
	require.NoError(t, err)
	c := NewController(l, view.NewTableView(l, zerolog.Nop()))
	require.NoError(t, c.Insert(view.NewNode("main")))
	return c, l
}

func cellAt(t *testing.T, l *level.Level, x, y int) level.Cell {
	t.Helper()
	c, err := l.Peek(x, y)
	require.NoError(t, err)
	if c == nil {
		return level.Cell{}
	}
	return *c
}

func TestControllerDragAndPlace(t *testing.T) {
	c, l := newController(t, 4, 4)

	require.NoError(t, c.Press(0, 0))
	require.NoError(t, c.Drag(1, 1))
	assert.True(t, cellAt(t, l, 1, 1).SelectPending)

	require.NoError(t, c.Drag(2, 0))
	assert.False(t, cellAt(t, l, 1, 1).SelectPending, "the previous pending region is cleared")
	assert.True(t, cellAt(t, l, 2, 0).SelectPending)

	require.NoError(t, c.Release())
	assert.False(t, c.Dragging())
	assert.Equal(t, []grid.Region{grid.NewRegion(0, 0, 2, 0)}, c.Selections())
	for x := 0; x <= 2; x++ {
		assert.Equal(t, level.Cell{Selected: true}, cellAt(t, l, x, 0))
	}

	// a cell deselected by hand keeps its value
	require.NoError(t, l.Update(1, 0, level.Patch{level.Selected(false)}))
	require.NoError(t, c.Place(level.BrushDig))
	assert.Equal(t, level.Cell{Value: level.BrushDig}, cellAt(t, l, 0, 0))
	assert.Equal(t, level.Cell{}, cellAt(t, l, 1, 0))
	assert.Equal(t, level.Cell{Value: level.BrushDig}, cellAt(t, l, 2, 0))
	assert.Equal(t, level.Cell{}, cellAt(t, l, 3, 0))

	// placed cells are no longer selected
	require.NoError(t, c.Place(level.BrushChop))
	assert.Equal(t, level.BrushDig, cellAt(t, l, 0, 0).Value)
}

func TestControllerPlaceUnknownBrush(t *testing.T) {
	c, _ := newController(t, 2, 2)
	require.ErrorIs(t, c.Place("lava"), level.ErrUnknownBrush)
}

func TestControllerDragWithoutPress(t *testing.T) {
	c, l := newController(t, 2, 2)
	require.NoError(t, c.Drag(1, 1))
	require.NoError(t, c.Release())
	assert.Empty(t, c.Selections())
	assert.Equal(t, level.Cell{}, cellAt(t, l, 1, 1))
}

func TestControllerClampsToLevel(t *testing.T) {
	c, l := newController(t, 3, 3)
	require.NoError(t, c.Press(-5, 1))
	require.NoError(t, c.Drag(10, 10))
	require.NoError(t, c.Release())
	assert.Equal(t, []grid.Region{grid.NewRegion(0, 1, 2, 2)}, c.Selections())
	assert.True(t, cellAt(t, l, 2, 2).Selected)

	empty, _ := newController(t, 0, 0)
	require.ErrorIs(t, empty.Press(0, 0), grid.ErrOutOfRange)
}

func TestControllerCancel(t *testing.T) {
	c, l := newController(t, 3, 3)
	require.NoError(t, c.Press(0, 0))
	require.NoError(t, c.Drag(2, 2))
	require.NoError(t, c.Cancel())
	require.NoError(t, c.Release())
	assert.Empty(t, c.Selections())
	assert.False(t, cellAt(t, l, 2, 2).SelectPending)
}

func TestControllerRemove(t *testing.T) {
	c, l := newController(t, 1, 1)
	require.NoError(t, c.Remove())
	assert.Equal(t, 0, l.Listeners(level.CellChanged))
	require.ErrorIs(t, c.Remove(), view.ErrNotAttached)
}
