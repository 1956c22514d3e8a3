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

package types

import "github.com/timburks/fortplan/level"

// Editor modes
const (
	ModeEdit    = 0
	ModeCommand = 2
	ModeLisp    = 4
	ModeQuit    = 9999
)

// Move directions
const (
	MoveUp    = 0
	MoveDown  = 1
	MoveRight = 2
	MoveLeft  = 3
)

// Event types
const (
	EventNone      = 0
	EventKey       = 1
	EventResize    = 2
	EventInterrupt = 3
)

type Key int

// Keys recognized by the commander. Printable characters arrive in Event.Ch.
const (
	KeyNone Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyBackspace2
	KeyCtrlC
	KeyCtrlS
	KeyEnd
	KeyEnter
	KeyEsc
	KeyHome
	KeyPgdn
	KeyPgup
	KeySpace
	KeyTab
	KeyUnsupported
)

type Event struct {
	Type   int
	Key    Key
	Ch     rune
	Width  int
	Height int
}

// A Point is a map coordinate.
type Point struct {
	X int
	Y int
}

// A Size is measured in terminal cells.
type Size struct {
	Rows int
	Cols int
}

type Color int

// Colors match the termbox attribute values.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// A Display is the surface a screen draws on.
type Display interface {
	SetCell(x, y int, c rune, fg, bg Color)
	SetCursor(x, y int)
}

// Editor is the set of services that operations use.
type Editor interface {
	GetCursor() Point
	SetCursor(cursor Point)
	GetBrush() level.Brush
	Paint(p Point, brush level.Brush) error
	Deselect(p Point) error
	Place(brush level.Brush) error
	Perform(op Operation, multiplier int) error
	Repeat() error
}

type Operation interface {
	Perform(e Editor, multiplier int) error
}

type Commander interface {
	SetMode(int)
	GetMode() int
	GetCommand() string
	GetLispText() string
	GetMessage() string
}
