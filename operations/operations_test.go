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

package operations

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	fortplan "github.com/timburks/fortplan/types"
)

// fakeEditor records the services called on it. Its map is width cells wide.
type fakeEditor struct {
	cursor fortplan.Point
	brush  level.Brush
	width  int
	calls  []string
}

func (e *fakeEditor) GetCursor() fortplan.Point       { return e.cursor }
func (e *fakeEditor) SetCursor(cursor fortplan.Point) { e.cursor = cursor }
func (e *fakeEditor) GetBrush() level.Brush           { return e.brush }

func (e *fakeEditor) Paint(p fortplan.Point, brush level.Brush) error {
	if p.X >= e.width {
		return fmt.Errorf("%w: %d", grid.ErrOutOfRange, p.X)
	}
	e.calls = append(e.calls, fmt.Sprintf("paint %d,%d %s", p.X, p.Y, brush))
	return nil
}

func (e *fakeEditor) Deselect(p fortplan.Point) error {
	if p.X >= e.width {
		return fmt.Errorf("%w: %d", grid.ErrOutOfRange, p.X)
	}
	e.calls = append(e.calls, fmt.Sprintf("deselect %d,%d", p.X, p.Y))
	return nil
}

func (e *fakeEditor) Place(brush level.Brush) error {
	e.calls = append(e.calls, fmt.Sprintf("place %s", brush))
	return nil
}

func (e *fakeEditor) Perform(op fortplan.Operation, multiplier int) error {
	return op.Perform(e, multiplier)
}

func (e *fakeEditor) Repeat() error { return nil }

func TestPaintCellMultiplier(t *testing.T) {
	e := &fakeEditor{cursor: fortplan.Point{X: 1, Y: 2}, brush: level.BrushDig, width: 3}
	op := &PaintCell{}
	require.NoError(t, op.Perform(e, 5))
	assert.Equal(t, []string{"paint 1,2 dig", "paint 2,2 dig"}, e.calls)

	// a repeat keeps the multiplier and follows the cursor
	e.calls = nil
	e.cursor = fortplan.Point{X: 0, Y: 0}
	require.NoError(t, op.Perform(e, 0))
	assert.Len(t, e.calls, 3)
}

func TestPaintCellOutsideMap(t *testing.T) {
	e := &fakeEditor{cursor: fortplan.Point{X: 4}, width: 3}
	err := (&PaintCell{Brush: level.BrushChop}).Perform(e, 1)
	assert.ErrorIs(t, err, grid.ErrOutOfRange)
}

func TestDeselect(t *testing.T) {
	e := &fakeEditor{width: 5}
	require.NoError(t, (&Deselect{}).Perform(e, 2))
	assert.Equal(t, []string{"deselect 0,0", "deselect 1,0"}, e.calls)
}

func TestPlaceBrushUsesCurrentBrush(t *testing.T) {
	e := &fakeEditor{brush: level.BrushUpStairs}
	op := &PlaceBrush{}
	require.NoError(t, op.Perform(e, 1))
	e.brush = level.BrushDownStairs
	require.NoError(t, op.Perform(e, 0))
	require.NoError(t, (&PlaceBrush{Brush: level.BrushDig}).Perform(e, 1))
	assert.Equal(t, []string{"place upstairs", "place downstairs", "place dig"}, e.calls)
}
