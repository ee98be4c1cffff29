// Package raster renders frames into RGBA images with the pure-Go software
// backend of tfriedel6/canvas, and encodes them as PNG or animated GIF.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Surface implements render.Surface on an offscreen canvas.
type Surface struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
}

func New(width, height int) *Surface {
	b := softwarebackend.New(width, height)
	return &Surface{backend: b, cv: canvas.New(b)}
}

func (s *Surface) Width() int  { return s.cv.Width() }
func (s *Surface) Height() int { return s.cv.Height() }

// Image is the backing image. It is overwritten by the next frame.
func (s *Surface) Image() *image.RGBA { return s.backend.Image }

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.cv.SetFillStyle(c)
	s.cv.FillRect(x, y, w, h)
}

func (s *Surface) BeginPath() { s.cv.BeginPath() }

func (s *Surface) MoveTo(x, y float64) { s.cv.MoveTo(x, y) }

func (s *Surface) LineTo(x, y float64) { s.cv.LineTo(x, y) }

func (s *Surface) Stroke(width float64, c color.Color) {
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.Stroke()
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, math.Pi*2, false)
	s.cv.SetFillStyle(c)
	s.cv.Fill()
}

func (s *Surface) StrokeCircle(x, y, r, width float64, dash []float64, c color.Color) {
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, math.Pi*2, false)
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.SetLineDash(dash)
	s.cv.Stroke()
	s.cv.SetLineDash(nil)
}

// WritePNG encodes the current frame.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.backend.Image)
}
