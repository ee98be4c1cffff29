// Package render draws a lattice frame onto a Surface.
package render

import (
	"image/color"
	"math"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
)

const (
	RowWidth    = 1.5
	ColumnWidth = 1.2

	baseBrightness  = 50
	boostBrightness = 150
	pinnedRadius    = 4
	freeRadius      = 2
	cursorRadius    = 8
	cursorAlpha     = 0.7
	ringAlpha       = 0.2
	ringWidth       = 1
)

var ringDash = []float64{5, 5}

// View is the read-only state a frame is drawn from. Pointer may be nil.
type View struct {
	Lattice *lattice.Lattice
	Pointer *pointer.State
	Radius  float64
}

type Renderer struct {
	Palette Palette
}

func New(p Palette) *Renderer {
	return &Renderer{Palette: p}
}

// Draw paints background, row and column polylines, particle dots and the
// pressed-pointer overlay, in that order.
func (r *Renderer) Draw(s Surface, v View) {
	l := v.Lattice
	s.FillRect(0, 0, l.Width, l.Height, r.Palette.Background)

	for y := 0; y < l.Rows; y++ {
		s.BeginPath()
		for x := 0; x < l.Cols; x++ {
			p := l.At(x, y)
			if x == 0 {
				s.MoveTo(p.X, p.Y)
			} else {
				s.LineTo(p.X, p.Y)
			}
		}
		s.Stroke(RowWidth, r.rowColor(y, l.Rows))
	}

	for x := 0; x < l.Cols; x++ {
		s.BeginPath()
		for y := 0; y < l.Rows; y++ {
			p := l.At(x, y)
			if y == 0 {
				s.MoveTo(p.X, p.Y)
			} else {
				s.LineTo(p.X, p.Y)
			}
		}
		s.Stroke(ColumnWidth, r.Palette.Line)
	}

	for i := range l.Particles {
		p := &l.Particles[i]
		rad := float64(freeRadius)
		if p.Pinned {
			rad = pinnedRadius
		}
		s.FillCircle(p.X, p.Y, rad, r.dotColor(Brightness(p, v.Pointer, v.Radius)))
	}

	if ptr := v.Pointer; ptr != nil && ptr.Pressed && ptr.OnSurface {
		s.FillCircle(ptr.X, ptr.Y, cursorRadius, withAlpha(r.Palette.Overlay, cursorAlpha))
		s.StrokeCircle(ptr.X, ptr.Y, v.Radius, ringWidth, ringDash, withAlpha(r.Palette.Overlay, ringAlpha))
	}
}

// Brightness is the grey level of a particle dot: 50 at rest, up to 200
// right under an active pointer.
func Brightness(p *lattice.Particle, ptr *pointer.State, radius float64) int {
	if ptr == nil || !ptr.OnSurface {
		return baseBrightness
	}
	d := math.Hypot(p.X-ptr.X, p.Y-ptr.Y)
	if d >= radius {
		return baseBrightness
	}
	return int(math.Floor(baseBrightness + ptr.Strength*(1-d/radius)*boostBrightness))
}

func (r *Renderer) dotColor(b int) color.NRGBA {
	if r.Palette.InvertDots {
		b = 255 - b
	}
	v := uint8(b)
	return color.NRGBA{v, v, v, 255}
}

func (r *Renderer) rowColor(y, rows int) color.NRGBA {
	if !r.Palette.RowFade {
		return r.Palette.Line
	}
	return withAlpha(r.Palette.Line, 0.6+float64(y)/float64(rows)*0.3)
}
