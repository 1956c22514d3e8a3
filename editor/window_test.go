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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/fortplan/level"
	fortplan "github.com/timburks/fortplan/types"
)

type cell struct {
	ch     rune
	fg, bg fortplan.Color
}

type fakeDisplay struct {
	cells  map[fortplan.Point]cell
	cursor fortplan.Point
}

func (d *fakeDisplay) SetCell(x, y int, c rune, fg, bg fortplan.Color) {
	d.cells[fortplan.Point{X: x, Y: y}] = cell{c, fg, bg}
}

func (d *fakeDisplay) SetCursor(x, y int) {
	d.cursor = fortplan.Point{X: x, Y: y}
}

func TestWindowRender(t *testing.T) {
	e := newEditor(t, nil, nil)
	require.NoError(t, e.Paint(fortplan.Point{X: 1, Y: 0}, level.BrushDig))
	require.NoError(t, e.Select(2, 1, 2, 1))

	w := e.Window()
	w.SetOrigin(fortplan.Point{X: 1, Y: 0})
	w.SetSize(fortplan.Size{Rows: 5, Cols: 4})
	d := &fakeDisplay{cells: map[fortplan.Point]cell{}}
	w.Render(d, fortplan.Point{X: 2, Y: 1})

	assert.Equal(t, cell{'.', fortplan.ColorWhite, fortplan.ColorDefault}, d.cells[fortplan.Point{X: 1, Y: 0}])
	assert.Equal(t, cell{'d', fortplan.ColorGreen, fortplan.ColorDefault}, d.cells[fortplan.Point{X: 2, Y: 0}])
	assert.Equal(t, cell{'.', fortplan.ColorBlack, fortplan.ColorYellow}, d.cells[fortplan.Point{X: 3, Y: 1}])
	assert.Equal(t, '~', d.cells[fortplan.Point{X: 1, Y: 4}].ch, "rows past the map")
	_, drawn := d.cells[fortplan.Point{X: 5, Y: 0}]
	assert.False(t, drawn, "columns past the window")
	assert.Equal(t, fortplan.Point{X: 3, Y: 1}, d.cursor)
}

func TestWindowScrollsToCursor(t *testing.T) {
	e := newEditor(t, nil, nil)
	w := e.Window()
	w.SetSize(fortplan.Size{Rows: 2, Cols: 3})
	d := &fakeDisplay{cells: map[fortplan.Point]cell{}}

	w.Render(d, fortplan.Point{X: 5, Y: 3})
	assert.Equal(t, fortplan.Point{X: 3, Y: 2}, w.GetOffset())
	assert.Equal(t, fortplan.Point{X: 2, Y: 1}, d.cursor)

	w.Render(d, fortplan.Point{X: 0, Y: 0})
	assert.Equal(t, fortplan.Point{}, w.GetOffset())
}
