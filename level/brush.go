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

package level

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownBrush is returned when a cell value names no known brush.
var ErrUnknownBrush = errors.New("unknown brush")

// A Brush names a kind of designation painted onto cells.
type Brush string

const (
	BrushClear        Brush = "clear"
	BrushDig          Brush = "dig"
	BrushChop         Brush = "chop"
	BrushDownStairs   Brush = "downstairs"
	BrushUpDownStairs Brush = "updownstairs"
	BrushUpStairs     Brush = "upstairs"
)

// BrushInfo describes how a brush is labelled, exported and drawn.
type BrushInfo struct {
	Brush  Brush
	Label  string
	Code   string      // single character used by the compact text export
	Class  string      // visual class tag, empty for no class
	Colour color.Color // nil when the brush has no colour of its own
}

var brushes = []BrushInfo{
	{Brush: BrushDig, Label: "Dig", Code: "d", Class: "dig", Colour: color.RGBA{R: 155, G: 255, B: 155, A: 255}},
	{Brush: BrushClear, Label: "Clear"},
	{Brush: BrushChop, Label: "Chop", Code: "t", Class: "chop"},
	{Brush: BrushDownStairs, Label: "Down stairs", Code: "i", Class: "downstairs"},
	{Brush: BrushUpDownStairs, Label: "Up Down stairs", Code: "j", Class: "updownstairs"},
	{Brush: BrushUpStairs, Label: "Up stairs", Code: "k", Class: "upstairs"},
}

// Brushes returns the brush vocabulary in display order.
func Brushes() []BrushInfo {
	return append([]BrushInfo(nil), brushes...)
}

// Info resolves the brush, failing with ErrUnknownBrush for names outside the vocabulary.
func (b Brush) Info() (BrushInfo, error) {
	for _, info := range brushes {
		if info.Brush == b {
			return info, nil
		}
	}
	return BrushInfo{}, fmt.Errorf("%w: %q", ErrUnknownBrush, string(b))
}

// ParseBrush accepts a brush name or its label, ignoring case of the name.
func ParseBrush(s string) (Brush, error) {
	for _, info := range brushes {
		if strings.EqualFold(string(info.Brush), s) || info.Label == s {
			return info.Brush, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBrush, s)
}

// Next returns the brush after b in display order, wrapping around.
func (b Brush) Next() Brush {
	for i, info := range brushes {
		if info.Brush == b {
			return brushes[(i+1)%len(brushes)].Brush
		}
	}
	return brushes[0].Brush
}
