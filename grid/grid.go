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

package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for coordinates or dimensions outside a grid.
	ErrOutOfRange = errors.New("out of range")
	// ErrMalformedSnapshot is returned when loaded rows do not form a rectangle.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// A Grid is a resizable rectangle of cells stored as rows.
// Every row holds exactly Width() cells and there are exactly Height() rows.
type Grid[T any] struct {
	width  int
	height int
	rows   [][]T
}

func New[T any](width, height int) *Grid[T] {
	g := &Grid[T]{}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.rows = make([][]T, 0, height)
	for y := 0; y < height; y++ {
		g.rows = append(g.rows, make([]T, width))
	}
	g.width = width
	g.height = height
	return g
}

func (g *Grid[T]) Width() int {
	return g.width
}

func (g *Grid[T]) Height() int {
	return g.height
}

// Contains reports whether (x,y) addresses a cell of the grid.
func (g *Grid[T]) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid[T]) outOfRange(x, y int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, x, y, g.width, g.height)
}

func (g *Grid[T]) Get(x, y int) (T, error) {
	if !g.Contains(x, y) {
		var zero T
		return zero, g.outOfRange(x, y)
	}
	return g.rows[y][x], nil
}

func (g *Grid[T]) Set(x, y int, v T) error {
	if !g.Contains(x, y) {
		return g.outOfRange(x, y)
	}
	g.rows[y][x] = v
	return nil
}

// Resize changes the grid dimensions. New cells hold the zero value.
// Cells cut off by a shrink are dropped and never come back on a later grow.
func (g *Grid[T]) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: size %dx%d", ErrOutOfRange, width, height)
	}
	if height < len(g.rows) {
		clear(g.rows[height:])
		g.rows = g.rows[:height]
	}
	for i, row := range g.rows {
		g.rows[i] = resizeRow(row, width)
	}
	for len(g.rows) < height {
		g.rows = append(g.rows, make([]T, width))
	}
	g.width = width
	g.height = height
	return nil
}

func resizeRow[T any](row []T, width int) []T {
	if width < len(row) {
		clear(row[width:])
		return row[:width]
	}
	// appending zero values overwrites anything left in the backing array
	return append(row, make([]T, width-len(row))...)
}

// Rows returns a copy of the grid contents, one slice per row.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, len(g.rows))
	for i, row := range g.rows {
		rows[i] = append(make([]T, 0, len(row)), row...)
	}
	return rows
}

// Load replaces the grid contents and dimensions with rows.
// Ragged input is rejected and leaves the grid untouched.
func (g *Grid[T]) Load(rows [][]T) error {
	width, err := Shape(rows)
	if err != nil {
		return err
	}
	loaded := make([][]T, len(rows))
	for i, row := range rows {
		loaded[i] = append(make([]T, 0, len(row)), row...)
	}
	g.rows = loaded
	g.width = width
	g.height = len(rows)
	return nil
}

// Shape returns the common row length of rows, or ErrMalformedSnapshot when rows differ.
// Zero rows have width 0.
func Shape[T any](rows [][]T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedSnapshot, i, len(row), width)
		}
	}
	return width, nil
}
