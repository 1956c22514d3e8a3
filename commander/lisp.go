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

package commander

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/steelseries/golisp"

	"github.com/timburks/fortplan/editor"
	"github.com/timburks/fortplan/level"
	fortplan "github.com/timburks/fortplan/types"
)

// current is the commander whose script is being evaluated.
var current *Commander

func init() {
	golisp.MakePrimitiveFunction("paint", "3", PaintImpl)
	golisp.MakePrimitiveFunction("select", "4", SelectImpl)
	golisp.MakePrimitiveFunction("place", "1", PlaceImpl)
	golisp.MakePrimitiveFunction("resize", "2", ResizeImpl)
	golisp.MakePrimitiveFunction("add-level", "0", AddLevelImpl)
	golisp.MakePrimitiveFunction("level", "1", LevelImpl)
	golisp.MakePrimitiveFunction("width", "0", WidthImpl)
	golisp.MakePrimitiveFunction("height", "0", HeightImpl)
	golisp.MakePrimitiveFunction("levels", "0", LevelsImpl)
	golisp.MakePrimitiveFunction("save", "0", SaveImpl)
	golisp.MakePrimitiveFunction("load", "0", LoadImpl)
}

func activeEditor() (*editor.Editor, error) {
	if current == nil {
		return nil, errors.New("no editor")
	}
	return current.editor, nil
}

// nth returns the n'th element of an argument list.
func nth(args *golisp.Data, n int) *golisp.Data {
	for i := 0; i < n; i++ {
		args = golisp.Cdr(args)
	}
	return golisp.Car(args)
}

func intArg(name string, args *golisp.Data, n int) (int, error) {
	val := nth(args, n)
	switch {
	case golisp.IntegerP(val):
		return int(golisp.IntegerValue(val)), nil
	case golisp.FloatP(val):
		return int(golisp.FloatValue(val)), nil
	}
	return 0, fmt.Errorf("%s requires a number for argument %d", name, n+1)
}

func brushArg(name string, args *golisp.Data, n int) (level.Brush, error) {
	val := nth(args, n)
	if !golisp.StringP(val) {
		return "", fmt.Errorf("%s requires a brush name for argument %d", name, n+1)
	}
	return level.ParseBrush(golisp.StringValue(val))
}

func integer(n int) *golisp.Data {
	return golisp.IntegerWithValue(int64(n))
}

func PaintImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	x, err := intArg("paint", args, 0)
	if err != nil {
		return nil, err
	}
	y, err := intArg("paint", args, 1)
	if err != nil {
		return nil, err
	}
	brush, err := brushArg("paint", args, 2)
	if err != nil {
		return nil, err
	}
	return nil, e.Paint(fortplan.Point{X: x, Y: y}, brush)
}

func SelectImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	var corners [4]int
	for i := range corners {
		if corners[i], err = intArg("select", args, i); err != nil {
			return nil, err
		}
	}
	return nil, e.Select(corners[0], corners[1], corners[2], corners[3])
}

func PlaceImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	brush, err := brushArg("place", args, 0)
	if err != nil {
		return nil, err
	}
	return nil, e.Place(brush)
}

func ResizeImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	w, err := intArg("resize", args, 0)
	if err != nil {
		return nil, err
	}
	h, err := intArg("resize", args, 1)
	if err != nil {
		return nil, err
	}
	return nil, e.SetSize(w, h)
}

func AddLevelImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	i, err := e.AddLevel()
	if err != nil {
		return nil, err
	}
	return integer(i), nil
}

func LevelImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	i, err := intArg("level", args, 0)
	if err != nil {
		return nil, err
	}
	if err := e.SelectLevel(i); err != nil {
		return nil, err
	}
	return integer(i), nil
}

func WidthImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	w, _ := e.GetSize()
	return integer(w), nil
}

func HeightImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	_, h := e.GetSize()
	return integer(h), nil
}

func LevelsImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	return integer(e.LevelCount()), nil
}

func SaveImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	id, err := e.Save(context.Background())
	if err != nil {
		return nil, err
	}
	return golisp.StringWithValue(id), nil
}

func LoadImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	e, err := activeEditor()
	if err != nil {
		return nil, err
	}
	if err := e.Load(context.Background()); err != nil {
		return nil, err
	}
	return integer(e.LevelCount()), nil
}

// ParseEval evaluates a lisp expression against the commander's editor and
// returns the printed result.
func (c *Commander) ParseEval(command string) (string, error) {
	current = c
	value, err := golisp.ParseAndEval(command)
	if err != nil {
		c.logger.Error().Err(err).Str("sexpr", command).Msg("eval")
		return "", err
	}
	result := golisp.String(value)
	c.logger.Debug().Str("sexpr", command).Str("value", result).Msg("eval")
	return result, nil
}

// ParseEvalFile evaluates every expression in the file at path.
func (c *Commander) ParseEvalFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = c.ParseEval("(begin " + string(b) + "\n)")
	return err
}
