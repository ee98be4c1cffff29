package raster

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

var ErrNoFrames = errors.New("raster: no frames recorded")

// Animation collects frames for an animated GIF. Delay is in 100ths of a
// second per frame.
type Animation struct {
	Delay  int
	frames []*image.Paletted
}

func NewAnimation(delay int) *Animation {
	return &Animation{Delay: delay}
}

// Add quantizes img to the web-safe palette and appends it.
func (a *Animation) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.WebSafe)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	a.frames = append(a.frames, p)
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) Reset() { a.frames = nil }

func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range a.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, a.Delay)
	}
	return gif.EncodeAll(w, &anim)
}
