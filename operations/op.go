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
	fortplan "github.com/timburks/fortplan/types"
)

type operation struct {
	Cursor     fortplan.Point
	Multiplier int
}

// init records where the operation starts. A repeat keeps the original multiplier.
func (op *operation) init(e fortplan.Editor, multiplier int) {
	op.Cursor = e.GetCursor()
	if op.Multiplier == 0 {
		op.Multiplier = multiplier
	}
	if op.Multiplier < 1 {
		op.Multiplier = 1
	}
}

// cells returns the cursor cell and the cells to its right, one per repetition.
func (op *operation) cells() []fortplan.Point {
	points := make([]fortplan.Point, op.Multiplier)
	for i := range points {
		points[i] = fortplan.Point{X: op.Cursor.X + i, Y: op.Cursor.Y}
	}
	return points
}
