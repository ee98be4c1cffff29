package render

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
)

func frame(t *testing.T) (*lattice.Lattice, *pointer.State) {
	t.Helper()
	l := lattice.Build(500, 500, lattice.DefaultOptions(), rand.New(rand.NewSource(1)))
	ptr := pointer.New()
	ptr.Reset(250, 250, 0)
	return l, ptr
}

func TestDrawOrder(t *testing.T) {
	l, ptr := frame(t)
	rec := &Recorder{}
	New(PaletteBlush).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})

	if len(rec.Ops) == 0 || rec.Ops[0].Kind != OpFillRect {
		t.Fatal("expected background fill first")
	}
	bg := rec.Ops[0]
	if bg.W != 500 || bg.H != 500 || bg.Color != (color.NRGBA{247, 218, 231, 255}) {
		t.Errorf("unexpected background op %+v", bg)
	}

	strokes := rec.Ops[1 : 1+l.Rows+l.Cols]
	for i, op := range strokes {
		if op.Kind != OpStroke {
			t.Fatalf("op %d: expected stroke, got %v", i+1, op.Kind)
		}
		want := RowWidth
		n := l.Cols
		if i >= l.Rows {
			want = ColumnWidth
			n = l.Rows
		}
		if op.Width != want || len(op.Points) != n {
			t.Errorf("stroke %d: width %v with %d points, want %v with %d", i, op.Width, len(op.Points), want, n)
		}
		if op.Color != (color.NRGBA{211, 140, 167, 255}) {
			t.Errorf("stroke %d: colour %v", i, op.Color)
		}
	}

	if got := rec.Count(OpFillCircle); got != len(l.Particles) {
		t.Errorf("expected %d dots, got %d", len(l.Particles), got)
	}
	if got := rec.Count(OpStrokeCircle); got != 0 {
		t.Errorf("expected no overlay ring when released, got %d", got)
	}
}

func TestRowPolylineFollowsParticles(t *testing.T) {
	l, ptr := frame(t)
	l.At(3, 2).X += 7
	rec := &Recorder{}
	New(PaletteBlush).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})

	row := rec.Ops[1+2]
	p := l.At(3, 2)
	if row.Points[3] != [2]float64{p.X, p.Y} {
		t.Errorf("expected row 2 vertex 3 at (%v,%v), got %v", p.X, p.Y, row.Points[3])
	}
}

func TestDotRadius(t *testing.T) {
	l, ptr := frame(t)
	rec := &Recorder{}
	New(PaletteBlush).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})

	dots := rec.Ops[1+l.Rows+l.Cols:]
	for i, p := range l.Particles {
		want := 2.0
		if p.Pinned {
			want = 4
		}
		if dots[i].R != want {
			t.Errorf("dot %d: radius %v, want %v", i, dots[i].R, want)
		}
	}
}

func TestBrightness(t *testing.T) {
	p := &lattice.Particle{X: 100, Y: 100}

	tests := []struct {
		name  string
		setup func(s *pointer.State)
		want  int
	}{
		{"nil pointer", nil, 50},
		{"off surface", func(s *pointer.State) { s.Reset(100, 100, 0) }, 50},
		{"on top", func(s *pointer.State) { s.Reset(100, 100, 0); s.Enter(0) }, 200},
		{"half radius", func(s *pointer.State) { s.Reset(190, 100, 0); s.Enter(0) }, 125},
		{"faded", func(s *pointer.State) { s.Reset(100, 100, 0); s.Enter(0); s.Strength = 0.5 }, 125},
		{"outside", func(s *pointer.State) { s.Reset(400, 100, 0); s.Enter(0) }, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ptr *pointer.State
			if tt.setup != nil {
				ptr = pointer.New()
				tt.setup(ptr)
			}
			if got := Brightness(p, ptr, 180); got != tt.want {
				t.Errorf("expected brightness %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPressedOverlay(t *testing.T) {
	l, ptr := frame(t)
	ptr.Press(120, 130, 0)
	rec := &Recorder{}
	New(PaletteBlush).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})

	n := len(rec.Ops)
	cursor, ring := rec.Ops[n-2], rec.Ops[n-1]
	if cursor.Kind != OpFillCircle || cursor.R != 8 || cursor.X != 120 || cursor.Y != 130 {
		t.Errorf("unexpected cursor op %+v", cursor)
	}
	if cursor.Color != (color.NRGBA{255, 255, 255, 179}) {
		t.Errorf("cursor colour %v", cursor.Color)
	}
	if ring.Kind != OpStrokeCircle || ring.R != 180 || ring.Width != 1 {
		t.Errorf("unexpected ring op %+v", ring)
	}
	if len(ring.Dash) != 2 || ring.Dash[0] != 5 || ring.Dash[1] != 5 {
		t.Errorf("expected [5 5] dash, got %v", ring.Dash)
	}
	if ring.Color.A != 51 {
		t.Errorf("expected ring alpha 51, got %d", ring.Color.A)
	}
}

func TestRowFadeAndInvert(t *testing.T) {
	l, ptr := frame(t)
	rec := &Recorder{}
	New(PaletteFaded).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})

	if a := rec.Ops[1].Color.A; a != 153 {
		t.Errorf("expected top row alpha 153, got %d", a)
	}
	if a := rec.Ops[l.Rows].Color.A; a <= rec.Ops[1].Color.A {
		t.Errorf("expected bottom row more opaque than top, got %d", a)
	}

	rec.Reset()
	New(PaletteInk).Draw(rec, View{Lattice: l, Pointer: ptr, Radius: 180})
	dot := rec.Ops[1+l.Rows+l.Cols]
	if dot.Color.R != 205 {
		t.Errorf("expected inverted dot 205, got %d", dot.Color.R)
	}
}

func TestPalettes(t *testing.T) {
	if _, err := GetPalette("nope"); err == nil {
		t.Error("expected error for unknown palette")
	}
	p, err := GetPalette("mint")
	if err != nil || p.Name != "mint" {
		t.Fatalf("GetPalette(mint) = %v, %v", p.Name, err)
	}
	if Next(Palettes[len(Palettes)-1]).Name != Palettes[0].Name {
		t.Error("Next must wrap around")
	}
	if len(PaletteNames()) != len(Palettes) {
		t.Error("PaletteNames length mismatch")
	}
}
