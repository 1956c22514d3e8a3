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
	"unicode/utf8"

	fortplan "github.com/timburks/fortplan/types"
	"github.com/timburks/fortplan/view"
)

// A Window is a scrolling view of the active level's table.
type Window struct {
	table  *view.TableView
	origin fortplan.Point  // top left corner on the display
	size   fortplan.Size   // size of the drawing area
	offset fortplan.Point  // first map cell shown
}

func NewWindow() *Window {
	return &Window{}
}

func (w *Window) SetTable(t *view.TableView) {
	w.table = t
	w.offset = fortplan.Point{}
}

func (w *Window) SetOrigin(origin fortplan.Point) {
	w.origin = origin
}

func (w *Window) SetSize(size fortplan.Size) {
	w.size = size
}

func (w *Window) GetOffset() fortplan.Point {
	return w.offset
}

// keep the cursor inside the drawing area
func (w *Window) adjustDisplayOffsetForScrolling(cursor fortplan.Point) {
	if cursor.Y < w.offset.Y {
		w.offset.Y = cursor.Y
	}
	if cursor.Y-w.offset.Y >= w.size.Rows {
		w.offset.Y = cursor.Y - w.size.Rows + 1
	}
	if cursor.X < w.offset.X {
		w.offset.X = cursor.X
	}
	if cursor.X-w.offset.X >= w.size.Cols {
		w.offset.X = cursor.X - w.size.Cols + 1
	}
}

// Render draws one display cell per map cell, with the cursor on cursor.
// Rows past the end of the map are marked with a tilde.
func (w *Window) Render(display fortplan.Display, cursor fortplan.Point) {
	if w.table == nil {
		return
	}
	w.adjustDisplayOffsetForScrolling(cursor)
	root := w.table.Root()
	for i := 0; i < w.size.Rows; i++ {
		row := root.Child(i + w.offset.Y)
		if row == nil {
			display.SetCell(w.origin.X, w.origin.Y+i, '~', fortplan.ColorBlue, fortplan.ColorDefault)
			continue
		}
		for j := 0; j < w.size.Cols; j++ {
			cell := row.Child(j + w.offset.X)
			if cell == nil {
				break
			}
			fg, bg := style(cell)
			display.SetCell(w.origin.X+j, w.origin.Y+i, glyph(cell), fg, bg)
		}
	}
	display.SetCursor(w.origin.X+cursor.X-w.offset.X, w.origin.Y+cursor.Y-w.offset.Y)
}

func glyph(n *view.Node) rune {
	if n.Text == "" {
		return '.'
	}
	r, _ := utf8.DecodeRuneInString(n.Text)
	return r
}

func style(n *view.Node) (fg, bg fortplan.Color) {
	fg, bg = fortplan.ColorWhite, fortplan.ColorDefault
	switch {
	case n.HasClass("dig"):
		fg = fortplan.ColorGreen
	case n.HasClass("chop"):
		fg = fortplan.ColorYellow
	case n.HasClass("downstairs"), n.HasClass("updownstairs"), n.HasClass("upstairs"):
		fg = fortplan.ColorCyan
	}
	switch {
	case n.HasClass(view.ClassSelected):
		fg, bg = fortplan.ColorBlack, fortplan.ColorYellow
	case n.HasClass(view.ClassSelectPending):
		fg, bg = fortplan.ColorBlack, fortplan.ColorMagenta
	}
	return fg, bg
}
