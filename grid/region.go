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

// Bounds are the inclusive corners of a Region.
type Bounds struct {
	X1, Y1 int
	X2, Y2 int
}

// A Region is a rectangle of cells given by two corners.
// Corners are normalized so that X1 <= X2 and Y1 <= Y2.
type Region struct {
	b Bounds
}

func NewRegion(x1, y1, x2, y2 int) Region {
	return Region{b: Bounds{
		X1: min(x1, x2),
		Y1: min(y1, y2),
		X2: max(x1, x2),
		Y2: max(y1, y2),
	}}
}

// PointRegion is the single cell region at (x,y).
func PointRegion(x, y int) Region {
	return NewRegion(x, y, x, y)
}

func (r Region) Bounds() Bounds {
	return r.b
}

// ForEach calls visit for every cell of the region, x outer and y inner.
// A nil visit only returns the bounds.
func (r Region) ForEach(visit func(x, y int)) Bounds {
	if visit != nil {
		for x := r.b.X1; x <= r.b.X2; x++ {
			for y := r.b.Y1; y <= r.b.Y2; y++ {
				visit(x, y)
			}
		}
	}
	return r.b
}

func (r Region) Width() int {
	return r.b.X2 - r.b.X1 + 1
}

func (r Region) Height() int {
	return r.b.Y2 - r.b.Y1 + 1
}

// Area is the number of cells covered.
func (r Region) Area() int {
	return r.Width() * r.Height()
}

func (r Region) Contains(x, y int) bool {
	return x >= r.b.X1 && x <= r.b.X2 && y >= r.b.Y1 && y <= r.b.Y2
}

// Within reports whether every cell of the region lies inside a width x height grid.
func (r Region) Within(width, height int) bool {
	return r.b.X1 >= 0 && r.b.Y1 >= 0 && r.b.X2 < width && r.b.Y2 < height
}
