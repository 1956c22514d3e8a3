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
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/metrics"
	"github.com/timburks/fortplan/schedule"
)

func gradient(x int) color.RGBA {
	return color.RGBA{R: 0, G: uint8(250 - x), B: 155, A: 255}
}

func TestRasterPaintLayer(t *testing.T) {
	l := newLevel(t, 2, 2)
	m := metrics.New()
	v := NewRasterView(l, PaintLayer, RasterOptions{Scheduler: schedule.NewManual(), Metrics: m, Logger: zerolog.Nop()})
	require.NoError(t, v.Attach(NewNode("div")))

	img := v.Image()
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
	assert.Equal(t, gradient(0), img.RGBAAt(5, 5))
	assert.Equal(t, gradient(1), img.RGBAAt(15, 15))

	require.NoError(t, l.Update(1, 0, level.Patch{level.Value(level.BrushDig)}))
	assert.Equal(t, color.RGBA{R: 155, G: 255, B: 155, A: 255}, img.RGBAAt(15, 5))
	assert.Equal(t, color.RGBA{R: 155, G: 255, B: 155, A: 255}, img.RGBAAt(10, 9))
	assert.Equal(t, gradient(1), img.RGBAAt(15, 10))

	require.NoError(t, l.Update(1, 0, level.Patch{level.Value(level.BrushChop)}))
	assert.Equal(t, gradient(1), img.RGBAAt(15, 5), "brushes without a colour use the gradient")

	assert.Equal(t, 1.0, m.Value("fortplan_view_redraws_total{kind=full,layer=paint}"))
	assert.Equal(t, 2.0, m.Value("fortplan_view_redraws_total{kind=block,layer=paint}"))
}

func TestRasterCoalescesResizes(t *testing.T) {
	l := newLevel(t, 2, 2)
	m := metrics.New()
	clock := schedule.NewManual()
	v := NewRasterView(l, PaintLayer, RasterOptions{Scheduler: clock, Metrics: m})
	require.NoError(t, v.Attach(NewNode("div")))

	require.NoError(t, l.Resize(3, 3))
	require.NoError(t, l.Resize(4, 3))
	clock.Advance(30 * time.Millisecond)
	require.NoError(t, l.Resize(5, 3))
	assert.True(t, v.Pending())
	assert.Equal(t, image.Rect(0, 0, 20, 20), v.Image().Bounds())

	clock.Advance(49 * time.Millisecond)
	assert.True(t, v.Pending())
	clock.Advance(time.Millisecond)
	assert.False(t, v.Pending())
	assert.Equal(t, image.Rect(0, 0, 50, 30), v.Image().Bounds())
	assert.Same(t, v.Image(), v.Root().Image)
	assert.Equal(t, 2.0, m.Value("fortplan_view_redraws_total{kind=full,layer=paint}"))
}

func TestRasterCellChangeForcesPendingRedraw(t *testing.T) {
	l := newLevel(t, 1, 1)
	clock := schedule.NewManual()
	v := NewRasterView(l, PaintLayer, RasterOptions{Scheduler: clock})
	require.NoError(t, v.Attach(NewNode("div")))

	require.NoError(t, l.Resize(3, 1))
	require.NoError(t, l.Update(2, 0, level.Patch{level.Value(level.BrushDig)}))
	assert.False(t, v.Pending())
	assert.Equal(t, image.Rect(0, 0, 30, 10), v.Image().Bounds())
	assert.Equal(t, color.RGBA{R: 155, G: 255, B: 155, A: 255}, v.Image().RGBAAt(25, 5))
	assert.Equal(t, 0, clock.Pending())
}

func TestRasterWithoutSchedulerRedrawsAtOnce(t *testing.T) {
	l := newLevel(t, 1, 1)
	v := NewRasterView(l, PaintLayer, RasterOptions{BlockSize: 4})
	require.NoError(t, v.Attach(NewNode("div")))
	require.NoError(t, l.Resize(2, 3))
	assert.Equal(t, image.Rect(0, 0, 8, 12), v.Image().Bounds())
}

func TestRasterSelectLayer(t *testing.T) {
	l := newLevel(t, 3, 3)
	m := metrics.New()
	v := NewRasterView(l, SelectLayer, RasterOptions{Scheduler: schedule.NewManual(), Metrics: m})
	require.NoError(t, v.Attach(NewNode("div")))
	overlay := color.RGBAModel.Convert(Overlay).(color.RGBA)

	require.NoError(t, l.UpdateRegion(grid.NewRegion(1, 0, 2, 1), level.Patch{level.SelectPending(true)}))
	img := v.Image()
	assert.Equal(t, overlay, img.RGBAAt(10, 0))
	assert.Equal(t, overlay, img.RGBAAt(29, 19))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(9, 0))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(10, 20))

	require.NoError(t, l.UpdateRegion(grid.NewRegion(2, 0, 2, 1), level.Patch{level.SelectPending(false)}))
	assert.Equal(t, overlay, img.RGBAAt(15, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(25, 5))

	require.NoError(t, l.UpdateRegion(grid.NewRegion(0, 2, 0, 2), level.Patch{level.Selected(true), level.SelectPending(false)}))
	assert.Equal(t, overlay, img.RGBAAt(5, 25))
	assert.Equal(t, 3.0, m.Value("fortplan_view_redraws_total{kind=overlay,layer=select}"))

	// a full redraw restores the overlay from the cells
	require.NoError(t, v.Render())
	img = v.Image()
	assert.Equal(t, overlay, img.RGBAAt(15, 5))
	assert.Equal(t, overlay, img.RGBAAt(5, 25))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(25, 5))
}

func TestRasterGridLayer(t *testing.T) {
	l := newLevel(t, 2, 2)
	v := NewRasterView(l, GridLayer, RasterOptions{})
	require.NoError(t, v.Attach(NewNode("div")))
	img := v.Image()
	line := color.RGBAModel.Convert(GridLine).(color.RGBA)
	assert.Equal(t, line, img.RGBAAt(10, 3))
	assert.Equal(t, line, img.RGBAAt(3, 10))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestCompositeAndPNG(t *testing.T) {
	l := newLevel(t, 2, 1)
	paint := NewRasterView(l, PaintLayer, RasterOptions{})
	sel := NewRasterView(l, SelectLayer, RasterOptions{})
	parent := NewNode("div")
	require.NoError(t, paint.Attach(parent))
	require.NoError(t, sel.Attach(parent))
	require.NoError(t, l.UpdateRegion(grid.PointRegion(0, 0), level.Patch{level.Selected(true)}))

	out := Composite(paint, sel)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
	assert.Equal(t, gradient(1), out.RGBAAt(15, 5))
	assert.NotEqual(t, gradient(0), out.RGBAAt(5, 5))
	assert.Equal(t, uint8(255), out.RGBAAt(5, 5).A)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, out))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, out.Bounds(), decoded.Bounds())
}

func TestRasterDetachCancelsRedraw(t *testing.T) {
	l := newLevel(t, 1, 1)
	clock := schedule.NewManual()
	v := NewRasterView(l, PaintLayer, RasterOptions{Scheduler: clock})
	require.ErrorIs(t, v.Detach(), ErrNotAttached)
	require.NoError(t, v.Attach(NewNode("div")))
	require.NoError(t, l.Resize(2, 2))
	require.NoError(t, v.Detach())
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, 0, l.Listeners(level.SizeChanged))
}

func TestRasterSelectLayerFollowsCells(t *testing.T) {
	l := newLevel(t, 3, 3)
	v := NewRasterView(l, SelectLayer, RasterOptions{})
	require.NoError(t, v.Attach(NewNode("div")))
	overlay := color.RGBAModel.Convert(Overlay).(color.RGBA)

	// a committed selection, then a pending one dragged over it and cleared
	require.NoError(t, l.UpdateRegion(grid.NewRegion(0, 0, 2, 0), level.Patch{level.Selected(true)}))
	require.NoError(t, l.UpdateRegion(grid.NewRegion(1, 0, 2, 2), level.Patch{level.SelectPending(true)}))
	require.NoError(t, l.UpdateRegion(grid.NewRegion(1, 0, 2, 2), level.Patch{level.SelectPending(false)}))

	img := v.Image()
	assert.Equal(t, overlay, img.RGBAAt(15, 5), "still selected")
	assert.Equal(t, overlay, img.RGBAAt(25, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(15, 15))

	// clearing a selection repaints from the cells, not from the patch
	require.NoError(t, l.Update(0, 0, level.Patch{level.Selected(false)}))
	require.NoError(t, l.UpdateRegion(grid.NewRegion(0, 0, 1, 0), level.Patch{level.Value(level.BrushDig)}))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
	assert.Equal(t, overlay, img.RGBAAt(15, 5))

	incremental := append([]uint8(nil), img.Pix...)
	require.NoError(t, v.Render())
	assert.Equal(t, incremental, v.Image().Pix, "incremental and full renders agree")
}
