package lattice

import (
	"math"
	"math/rand"
	"testing"
)

func build(w, h float64, seed int64) *Lattice {
	return Build(w, h, DefaultOptions(), rand.New(rand.NewSource(seed)))
}

func TestDims(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		cols, rows int
	}{
		{"square 500", 500, 500, 10, 10},
		{"clamped small", 120, 80, 10, 10},
		{"wide", 1000, 500, 20, 10},
		{"full hd", 1920, 1080, 38, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := Dims(tt.w, tt.h, DefaultOptions())
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("Dims(%v, %v) = %d x %d, want %d x %d", tt.w, tt.h, cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestBuildSpacingFitsViewport(t *testing.T) {
	l := build(1000, 500, 1)
	want := math.Min(1000.0/19, 500.0/9)
	if math.Abs(l.Spacing-want) > 1e-12 {
		t.Errorf("spacing = %v, want %v", l.Spacing, want)
	}
	if len(l.Particles) != l.Cols*l.Rows {
		t.Errorf("expected %d particles, got %d", l.Cols*l.Rows, len(l.Particles))
	}
}

func TestBuildPinning(t *testing.T) {
	l := build(500, 500, 1)

	pinned := map[int]bool{0: true, 4: true, 8: true, 9: true}
	for i, p := range l.Particles {
		col, row := i%l.Cols, i/l.Cols
		want := row == 0 && pinned[col]
		if p.Pinned != want {
			t.Errorf("particle (%d,%d) pinned = %v, want %v", col, row, p.Pinned, want)
		}
	}
}

func TestBuildRestShape(t *testing.T) {
	l := build(500, 500, 7)

	for i, p := range l.Particles {
		col, row := i%l.Cols, i/l.Cols
		wantX := float64(col) * l.Spacing
		wantY := float64(row)*l.Spacing + (math.Sin(float64(col)*0.2)*15 + math.Sin(float64(row)*0.2)*10)
		if p.X != wantX || math.Abs(p.Y-wantY) > 1e-9 {
			t.Fatalf("particle %d at (%v,%v), want (%v,%v)", i, p.X, p.Y, wantX, wantY)
		}
		if p.PrevX != p.X || p.PrevY != p.Y || p.OrigX != p.X || p.OrigY != p.Y {
			t.Fatalf("particle %d: previous and rest position must equal initial position", i)
		}
	}
}

func TestBuildRandomRanges(t *testing.T) {
	l := build(800, 600, 3)
	for i, p := range l.Particles {
		if p.Mass < 1 || p.Mass >= 1.5 {
			t.Errorf("particle %d mass %v out of [1,1.5)", i, p.Mass)
		}
		lo, hi := DefaultReturnSpeed*0.8, DefaultReturnSpeed*1.2
		if p.ReturnSpeed < lo || p.ReturnSpeed >= hi {
			t.Errorf("particle %d return speed %v out of [%v,%v)", i, p.ReturnSpeed, lo, hi)
		}
		if p.Thickness < 0.5 || p.Thickness >= 2 {
			t.Errorf("particle %d thickness %v out of [0.5,2)", i, p.Thickness)
		}
	}
}

func TestBuildConstraints(t *testing.T) {
	l := build(500, 500, 1)

	// 9*10 horizontal + 10*9 vertical + 9*9 diagonal
	if len(l.Constraints) != 261 {
		t.Fatalf("expected 261 constraints, got %d", len(l.Constraints))
	}

	var visible, hidden int
	for _, c := range l.Constraints {
		if c.P1 == c.P2 {
			t.Fatalf("degenerate constraint %+v", c)
		}
		if c.P1 < 0 || c.P2 >= len(l.Particles) {
			t.Fatalf("constraint %+v out of range", c)
		}
		if c.Visible {
			visible++
			if c.Strength != 1 || c.Length != l.Spacing {
				t.Errorf("structural constraint %+v has wrong strength or length", c)
			}
		} else {
			hidden++
			if c.Strength != 0.8 || math.Abs(c.Length-l.Spacing*math.Sqrt2) > 1e-9 {
				t.Errorf("diagonal constraint %+v has wrong strength or length", c)
			}
			if c.P2 != c.P1+l.Cols+1 {
				t.Errorf("diagonal constraint %+v is not down-right", c)
			}
		}
	}
	if visible != 180 || hidden != 81 {
		t.Errorf("visible/hidden = %d/%d, want 180/81", visible, hidden)
	}
}

func TestBuildIdempotentTopology(t *testing.T) {
	a := build(640, 480, 1)
	b := build(640, 480, 2)

	if a.Cols != b.Cols || a.Rows != b.Rows || a.Spacing != b.Spacing {
		t.Fatalf("dimensions differ: %dx%d@%v vs %dx%d@%v", a.Cols, a.Rows, a.Spacing, b.Cols, b.Rows, b.Spacing)
	}
	if len(a.Constraints) != len(b.Constraints) {
		t.Fatalf("constraint count differs")
	}
	for i := range a.Constraints {
		if a.Constraints[i] != b.Constraints[i] {
			t.Fatalf("constraint %d differs: %+v vs %+v", i, a.Constraints[i], b.Constraints[i])
		}
	}
	for i := range a.Particles {
		if a.Particles[i].OrigX != b.Particles[i].OrigX || a.Particles[i].OrigY != b.Particles[i].OrigY {
			t.Fatalf("rest position %d differs", i)
		}
		if a.Particles[i].Pinned != b.Particles[i].Pinned {
			t.Fatalf("pinning %d differs", i)
		}
	}
	if a.Generation == b.Generation {
		t.Error("each build must get a new generation")
	}
}

func TestBuildNoiseShape(t *testing.T) {
	opts := DefaultOptions()
	opts.Shape = ShapeNoise
	l := Build(500, 500, opts, rand.New(rand.NewSource(11)))

	for i, p := range l.Particles {
		col, row := i%l.Cols, i/l.Cols
		if p.X != float64(col)*l.Spacing {
			t.Fatalf("noise shape must only perturb y, particle %d x=%v", i, p.X)
		}
		if math.Abs(p.Y-float64(row)*l.Spacing) > opts.NoiseScale*2 {
			t.Fatalf("particle %d offset %v exceeds noise scale", i, p.Y-float64(row)*l.Spacing)
		}
	}
}

func TestNearest(t *testing.T) {
	l := build(500, 500, 1)
	target := l.At(3, 4)

	idx, ok := l.Nearest(target.X+1, target.Y+1, 10)
	if !ok || idx != l.Index(3, 4) {
		t.Errorf("Nearest = %d,%v want %d,true", idx, ok, l.Index(3, 4))
	}

	if _, ok := l.Nearest(-1000, -1000, 10); ok {
		t.Error("expected no particle within limit")
	}
}

func TestIsValidAndSnapshot(t *testing.T) {
	l := build(500, 500, 1)
	if !l.IsValid() {
		t.Fatal("fresh lattice should be valid")
	}

	snap := l.Snapshot()
	l.Particles[5].X = math.NaN()
	if l.IsValid() {
		t.Error("lattice with NaN should be invalid")
	}
	if !snap.IsValid() {
		t.Error("snapshot must not share particle storage")
	}
	if snap.Generation != l.Generation {
		t.Error("snapshot keeps the generation")
	}
}
