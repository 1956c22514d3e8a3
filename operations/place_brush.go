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
	"github.com/timburks/fortplan/level"
	fortplan "github.com/timburks/fortplan/types"
)

// PlaceBrush applies a brush to every selected cell of the active level.
// An empty Brush uses the editor's brush at the time of each perform.
type PlaceBrush struct {
	operation
	Brush level.Brush
}

func (op *PlaceBrush) Perform(e fortplan.Editor, multiplier int) error {
	op.init(e, multiplier)
	brush := op.Brush
	if brush == "" {
		brush = e.GetBrush()
	}
	return e.Place(brush)
}
