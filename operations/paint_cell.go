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
	"errors"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	fortplan "github.com/timburks/fortplan/types"
)

// PaintCell sets the brush of the cell under the cursor, and of the cells to
// its right when a multiplier is given. An empty Brush uses the editor's brush.
type PaintCell struct {
	operation
	Brush level.Brush
}

func (op *PaintCell) Perform(e fortplan.Editor, multiplier int) error {
	op.init(e, multiplier)
	brush := op.Brush
	if brush == "" {
		brush = e.GetBrush()
	}
	for _, p := range op.cells() {
		if err := e.Paint(p, brush); err != nil {
			if errors.Is(err, grid.ErrOutOfRange) && p != op.Cursor {
				break
			}
			return err
		}
	}
	return nil
}

// Deselect clears the selection mark of the cell under the cursor.
type Deselect struct {
	operation
}

func (op *Deselect) Perform(e fortplan.Editor, multiplier int) error {
	op.init(e, multiplier)
	for _, p := range op.cells() {
		if err := e.Deselect(p); err != nil {
			if errors.Is(err, grid.ErrOutOfRange) && p != op.Cursor {
				break
			}
			return err
		}
	}
	return nil
}
