package render

import "image/color"

// Surface is the minimal 2D drawing API the renderer needs. Paths are built
// with BeginPath/MoveTo/LineTo and drawn with Stroke.
type Surface interface {
	FillRect(x, y, w, h float64, c color.Color)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(width float64, c color.Color)
	FillCircle(x, y, r float64, c color.Color)
	StrokeCircle(x, y, r, width float64, dash []float64, c color.Color)
}

// Discard draws nothing. Headless runs that only need the physics use it.
var Discard Surface = discard{}

type discard struct{}

func (discard) FillRect(x, y, w, h float64, c color.Color)                         {}
func (discard) BeginPath()                                                         {}
func (discard) MoveTo(x, y float64)                                                {}
func (discard) LineTo(x, y float64)                                                {}
func (discard) Stroke(width float64, c color.Color)                                {}
func (discard) FillCircle(x, y, r float64, c color.Color)                          {}
func (discard) StrokeCircle(x, y, r, width float64, dash []float64, c color.Color) {}

type OpKind int

const (
	OpFillRect OpKind = iota
	OpStroke
	OpFillCircle
	OpStrokeCircle
)

// Op is one recorded draw call. Points holds the path of a stroke.
type Op struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	R      float64
	Width  float64
	Dash   []float64
	Color  color.NRGBA
	Points [][2]float64
}

// Recorder keeps every draw call in order.
type Recorder struct {
	Ops  []Op
	path [][2]float64
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.path = nil
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: toNRGBA(c)})
}

func (r *Recorder) BeginPath() { r.path = nil }

func (r *Recorder) MoveTo(x, y float64) { r.path = append(r.path, [2]float64{x, y}) }

func (r *Recorder) LineTo(x, y float64) { r.path = append(r.path, [2]float64{x, y}) }

func (r *Recorder) Stroke(width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Width: width, Color: toNRGBA(c), Points: r.path})
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, X: x, Y: y, R: rad, Color: toNRGBA(c)})
}

func (r *Recorder) StrokeCircle(x, y, rad, width float64, dash []float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, X: x, Y: y, R: rad, Width: width, Dash: dash, Color: toNRGBA(c)})
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
