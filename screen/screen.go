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

package screen

import (
	"fmt"

	"github.com/nsf/termbox-go"

	"github.com/timburks/fortplan/commander"
	"github.com/timburks/fortplan/editor"
	fortplan "github.com/timburks/fortplan/types"
)

// The Screen draws the state of an Editor.
type Screen struct {
	size fortplan.Size // screen size
}

func NewScreen() (*Screen, error) {
	// Open the terminal.
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetOutputMode(termbox.OutputNormal)
	return &Screen{}, nil
}

func (s *Screen) Close() {
	termbox.Close()
}

func (s *Screen) Render(e *editor.Editor, c *commander.Commander) error {
	if err := termbox.Clear(termbox.ColorWhite, termbox.ColorBlack); err != nil {
		return err
	}
	var screenSize fortplan.Size
	screenSize.Cols, screenSize.Rows = termbox.Size()
	s.size = screenSize

	w := e.Window()
	w.SetOrigin(fortplan.Point{})
	w.SetSize(fortplan.Size{Rows: s.size.Rows - 2, Cols: s.size.Cols})
	w.Render(s, e.GetCursor())

	s.RenderInfoBar(e, c)
	s.RenderMessageBar(e, c)
	return termbox.Flush()
}

func (s *Screen) SetCell(x, y int, c rune, fg, bg fortplan.Color) {
	termbox.SetCell(x, y, c, termbox.Attribute(fg), termbox.Attribute(bg))
}

func (s *Screen) SetCursor(x, y int) {
	termbox.SetCursor(x, y)
}

func (s *Screen) RenderInfoBar(e *editor.Editor, c *commander.Commander) {
	width, height := e.GetSize()
	cursor := e.GetCursor()
	finalText := fmt.Sprintf(" (%d,%d) %dx%d ", cursor.X, cursor.Y, width, height)
	text := fmt.Sprintf(" fortplan - level %d/%d - %s ", e.ActiveIndex()+1, e.LevelCount(), e.GetBrush())
	if e.Selecting() {
		text += "- selecting "
	}
	for len(text) < s.size.Cols-len(finalText)-1 {
		text = text + " "
	}
	text += finalText
	for x, ch := range text {
		termbox.SetCell(x, s.size.Rows-2, ch, termbox.ColorBlack, termbox.ColorWhite)
	}
}

func (s *Screen) RenderMessageBar(e *editor.Editor, c *commander.Commander) {
	var line string
	switch c.GetMode() {
	case fortplan.ModeCommand:
		line += ":" + c.GetCommand()
	case fortplan.ModeLisp:
		line += c.GetLispText()
	default:
		line += c.GetMessage()
	}
	if len(line) > s.size.Cols {
		line = line[0:s.size.Cols]
	}
	for x, ch := range line {
		termbox.SetCell(x, s.size.Rows-1, ch, termbox.ColorWhite, termbox.ColorBlack)
	}
}

func (s *Screen) GetNextEvent() *fortplan.Event {
	event := termbox.PollEvent()
	if event.Type == termbox.EventResize {
		termbox.Flush()
	}
	return Translate(event)
}

// Translate converts a termbox event into an editor event.
func Translate(event termbox.Event) *fortplan.Event {
	switch event.Type {
	case termbox.EventKey:
		return &fortplan.Event{Type: fortplan.EventKey, Key: key(event.Key), Ch: event.Ch}
	case termbox.EventResize:
		return &fortplan.Event{Type: fortplan.EventResize, Width: event.Width, Height: event.Height}
	case termbox.EventInterrupt:
		return &fortplan.Event{Type: fortplan.EventInterrupt}
	default:
		return &fortplan.Event{Type: fortplan.EventNone}
	}
}

func key(k termbox.Key) fortplan.Key {
	if k == 0 {
		return fortplan.KeyNone
	}
	switch k {
	case termbox.KeyArrowDown:
		return fortplan.KeyArrowDown
	case termbox.KeyArrowLeft:
		return fortplan.KeyArrowLeft
	case termbox.KeyArrowRight:
		return fortplan.KeyArrowRight
	case termbox.KeyArrowUp:
		return fortplan.KeyArrowUp
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return fortplan.KeyBackspace2
	case termbox.KeyCtrlC:
		return fortplan.KeyCtrlC
	case termbox.KeyCtrlS:
		return fortplan.KeyCtrlS
	case termbox.KeyEnd:
		return fortplan.KeyEnd
	case termbox.KeyEnter:
		return fortplan.KeyEnter
	case termbox.KeyEsc:
		return fortplan.KeyEsc
	case termbox.KeyHome:
		return fortplan.KeyHome
	case termbox.KeyPgdn:
		return fortplan.KeyPgdn
	case termbox.KeyPgup:
		return fortplan.KeyPgup
	case termbox.KeySpace:
		return fortplan.KeySpace
	case termbox.KeyTab:
		return fortplan.KeyTab
	default:
		return fortplan.KeyUnsupported
	}
}
