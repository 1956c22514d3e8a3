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
	"errors"
	"fmt"

	"github.com/timburks/fortplan/grid"
)

// A Materializer creates and destroys the front-end objects that a Shadow
// tracks. Rows are always added and removed at the end.
type Materializer[H any] interface {
	AddRow(y int)
	AddCell(x, y int) (H, error)
	RemoveCell(x, y int, h H)
	RemoveRow(y int)
}

// A Shadow mirrors a level's dimensions with one handle per cell and
// applies size changes as deltas. Existing handles are never replaced.
type Shadow[H any] struct {
	m       Materializer[H]
	handles *grid.Grid[H]
}

func NewShadow[H any](m Materializer[H]) *Shadow[H] {
	return &Shadow[H]{m: m, handles: grid.New[H](0, 0)}
}

func (s *Shadow[H]) Width() int {
	return s.handles.Width()
}

func (s *Shadow[H]) Height() int {
	return s.handles.Height()
}

func (s *Shadow[H]) Handle(x, y int) (H, error) {
	return s.handles.Get(x, y)
}

// Sync brings the shadow to width x height. Trailing rows are removed first,
// then trailing columns of the remaining rows, then columns are added to the
// remaining rows and finally new rows are appended.
// Handles that fail to materialize still occupy their slot; the errors are joined.
func (s *Shadow[H]) Sync(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: size %dx%d", grid.ErrOutOfRange, width, height)
	}
	oldW, oldH := s.handles.Width(), s.handles.Height()

	for y := oldH - 1; y >= height; y-- {
		for x := oldW - 1; x >= 0; x-- {
			s.remove(x, y)
		}
		s.m.RemoveRow(y)
	}
	kept := min(oldH, height)
	if width < oldW {
		for y := 0; y < kept; y++ {
			for x := oldW - 1; x >= width; x-- {
				s.remove(x, y)
			}
		}
	}
	if err := s.handles.Resize(width, height); err != nil {
		return err
	}

	var errs []error
	for y := 0; y < kept; y++ {
		for x := oldW; x < width; x++ {
			errs = append(errs, s.add(x, y))
		}
	}
	for y := oldH; y < height; y++ {
		s.m.AddRow(y)
		for x := 0; x < width; x++ {
			errs = append(errs, s.add(x, y))
		}
	}
	return errors.Join(errs...)
}

func (s *Shadow[H]) add(x, y int) error {
	h, err := s.m.AddCell(x, y)
	s.handles.Set(x, y, h)
	return err
}

func (s *Shadow[H]) remove(x, y int) {
	h, _ := s.handles.Get(x, y)
	s.m.RemoveCell(x, y, h)
}

// Each calls visit for every handle in row order.
func (s *Shadow[H]) Each(visit func(x, y int, h H)) {
	for y, row := range s.handles.Rows() {
		for x, h := range row {
			visit(x, y, h)
		}
	}
}
