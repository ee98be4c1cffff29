package lattice

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/aquilax/go-perlin"
)

// Particle is one node of the web. Velocity is implicit: (X-PrevX, Y-PrevY).
type Particle struct {
	X, Y         float64
	PrevX, PrevY float64
	OrigX, OrigY float64
	Pinned       bool
	Thickness    float64
	Mass         float64
	ReturnSpeed  float64
}

// InvMass is zero for pinned particles.
func (p *Particle) InvMass() float64 {
	if p.Pinned {
		return 0
	}
	return 1 / p.Mass
}

func (p *Particle) Velocity() (float64, float64) {
	return p.X - p.PrevX, p.Y - p.PrevY
}

// Displacement is the distance from the rest position.
func (p *Particle) Displacement() float64 {
	return math.Hypot(p.X-p.OrigX, p.Y-p.OrigY)
}

// Constraint keeps two particles at Length apart. Diagonals are solved but not drawn.
type Constraint struct {
	P1, P2   int
	Length   float64
	Strength float64
	Visible  bool
}

type Shape string

const (
	ShapeWave  Shape = "wave"
	ShapeNoise Shape = "noise"
)

const (
	DefaultDensity     = 0.02
	DefaultMinCols     = 10
	DefaultMinRows     = 10
	DefaultReturnSpeed = 0.003
	DefaultNoiseScale  = 25.0

	structuralStrength = 1.0
	diagonalStrength   = 0.8
	pinEvery           = 4
)

type Options struct {
	Density     float64
	MinCols     int
	MinRows     int
	ReturnSpeed float64
	Shape       Shape
	NoiseScale  float64
}

func DefaultOptions() Options {
	return Options{
		Density:     DefaultDensity,
		MinCols:     DefaultMinCols,
		MinRows:     DefaultMinRows,
		ReturnSpeed: DefaultReturnSpeed,
		Shape:       ShapeWave,
		NoiseScale:  DefaultNoiseScale,
	}
}

// Lattice is the particle grid plus its constraint graph. Particles are stored
// row-major: index = col + row*Cols.
type Lattice struct {
	Cols, Rows    int
	Spacing       float64
	Width, Height float64
	Particles     []Particle
	Constraints   []Constraint
	Generation    uint64
}

var generations atomic.Uint64

// Dims returns the column and row counts used for a viewport.
func Dims(width, height float64, opts Options) (int, int) {
	cols := int(math.Floor(width * opts.Density))
	rows := int(math.Floor(height * opts.Density))
	if cols < opts.MinCols {
		cols = opts.MinCols
	}
	if rows < opts.MinRows {
		rows = opts.MinRows
	}
	return cols, rows
}

// Build creates a fresh lattice for the viewport. Topology depends only on the
// dimensions and options; rng supplies mass, return speed and thickness draws.
func Build(width, height float64, opts Options, rng *rand.Rand) *Lattice {
	cols, rows := Dims(width, height, opts)
	spacing := math.Min(width/float64(cols-1), height/float64(rows-1))

	l := &Lattice{
		Cols:        cols,
		Rows:        rows,
		Spacing:     spacing,
		Width:       width,
		Height:      height,
		Particles:   make([]Particle, 0, cols*rows),
		Constraints: make([]Constraint, 0, 3*cols*rows),
		Generation:  generations.Add(1),
	}

	offset := waveOffset
	if opts.Shape == ShapeNoise {
		offset = noiseOffset(rng, opts.NoiseScale)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := float64(x) * spacing
			py := float64(y)*spacing + offset(x, y)
			l.Particles = append(l.Particles, Particle{
				X: px, Y: py,
				PrevX: px, PrevY: py,
				OrigX: px, OrigY: py,
				Pinned:      y == 0 && (x%pinEvery == 0 || x == cols-1),
				Thickness:   0.5 + rng.Float64()*1.5,
				Mass:        1 + rng.Float64()*0.5,
				ReturnSpeed: opts.ReturnSpeed * (0.8 + rng.Float64()*0.4),
			})
		}
	}

	diagonal := math.Sqrt(spacing * spacing * 2)
	for i := range l.Particles {
		x, y := i%cols, i/cols
		if x < cols-1 {
			l.Constraints = append(l.Constraints, Constraint{P1: i, P2: i + 1, Length: spacing, Strength: structuralStrength, Visible: true})
		}
		if y < rows-1 {
			l.Constraints = append(l.Constraints, Constraint{P1: i, P2: i + cols, Length: spacing, Strength: structuralStrength, Visible: true})
		}
		if x < cols-1 && y < rows-1 {
			l.Constraints = append(l.Constraints, Constraint{P1: i, P2: i + cols + 1, Length: diagonal, Strength: diagonalStrength, Visible: false})
		}
	}

	return l
}

func waveOffset(x, y int) float64 {
	return math.Sin(float64(x)*0.2)*15 + math.Sin(float64(y)*0.2)*10
}

func noiseOffset(rng *rand.Rand, scale float64) func(x, y int) float64 {
	p := perlin.NewPerlin(2, 2, 3, rng.Int63())
	return func(x, y int) float64 {
		return p.Noise2D(float64(x)*0.2, float64(y)*0.2) * scale
	}
}

func (l *Lattice) Index(col, row int) int { return col + row*l.Cols }

func (l *Lattice) At(col, row int) *Particle { return &l.Particles[l.Index(col, row)] }

// Nearest returns the closest particle strictly within limit of (x, y).
func (l *Lattice) Nearest(x, y, limit float64) (int, bool) {
	best, found := limit, -1
	for i := range l.Particles {
		d := math.Hypot(l.Particles[i].X-x, l.Particles[i].Y-y)
		if d < best {
			best, found = d, i
		}
	}
	return found, found >= 0
}

// IsValid reports whether every position is finite.
func (l *Lattice) IsValid() bool {
	for i := range l.Particles {
		p := &l.Particles[i]
		for _, v := range [4]float64{p.X, p.Y, p.PrevX, p.PrevY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Snapshot deep-copies the lattice. The copy keeps the same Generation.
func (l *Lattice) Snapshot() *Lattice {
	c := *l
	c.Particles = make([]Particle, len(l.Particles))
	copy(c.Particles, l.Particles)
	c.Constraints = make([]Constraint, len(l.Constraints))
	copy(c.Constraints, l.Constraints)
	return &c
}
