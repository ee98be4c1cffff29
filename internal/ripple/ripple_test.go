package ripple

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
)

func newLattice(seed int64) *lattice.Lattice {
	return lattice.Build(500, 500, lattice.DefaultOptions(), rand.New(rand.NewSource(seed)))
}

func TestMagnitude(t *testing.T) {
	tests := []struct {
		d    float64
		want float64
	}{
		{0, 15},
		{150, 15 * 0.25},
		{75, 15 * 0.75 * 0.75},
		{299, 15 * (1.0 / 300) * (1.0 / 300)},
		{300, 0},
		{450, 0},
	}

	for _, tt := range tests {
		got := Magnitude(tt.d, DefaultMaxDistance, DefaultAmplitude)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Magnitude(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestImpulseIsPerpendicular(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		wx, wy float64
	}{
		{"right of origin", 10, 0, 0, 1},
		{"below origin", 0, 10, -1, 0},
		{"left of origin", -10, 0, 0, -1},
		{"on origin", 0, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, iy := Impulse(0, 0, tt.x, tt.y, 2)
			if math.Abs(ix-2*tt.wx) > 1e-12 || math.Abs(iy-2*tt.wy) > 1e-12 {
				t.Errorf("Impulse = (%v,%v), want (%v,%v)", ix, iy, 2*tt.wx, 2*tt.wy)
			}
		})
	}

	ix, iy := Impulse(3, 4, 40, -17, 7)
	if dot := ix*(40-3) + iy*(-17-4); math.Abs(dot) > 1e-9 {
		t.Errorf("impulse not perpendicular, dot = %v", dot)
	}
	if m := math.Hypot(ix, iy); math.Abs(m-7) > 1e-12 {
		t.Errorf("impulse magnitude = %v, want 7", m)
	}
}

func TestScheduleSkipsPinnedAndFar(t *testing.T) {
	l := newLattice(1)
	q := NewQueue(DefaultParams())

	ox, oy := l.At(0, 0).X, l.At(0, 0).Y
	n := q.Schedule(l, ox, oy, 0)

	want := 0
	for _, p := range l.Particles {
		if !p.Pinned && math.Hypot(p.X-ox, p.Y-oy) < DefaultMaxDistance {
			want++
		}
	}
	if n != want || q.Len() != want {
		t.Errorf("scheduled %d (queue %d), want %d", n, q.Len(), want)
	}
	if want == 0 || want == len(l.Particles) {
		t.Fatalf("test lattice should have both near and far particles, got %d", want)
	}
}

func TestDrainHonoursDelay(t *testing.T) {
	l := newLattice(1)
	q := NewQueue(DefaultParams())
	cx, cy := 250.0, 250.0

	q.Schedule(l, cx, cy, 0)
	total := q.Len()

	// Nothing closer than 0 units, so no kick is due before time passes
	// unless a particle sits exactly on the origin.
	landed := 0
	for now := time.Duration(0); now <= 150*time.Millisecond; now += time.Millisecond {
		n := q.Drain(l, now)
		landed += n
		for i, p := range l.Particles {
			if p.PrevX == p.X && p.PrevY == p.Y {
				continue
			}
			d := math.Hypot(p.OrigX-cx, p.OrigY-cy)
			due := time.Duration(d * float64(DefaultDelayPerUnit))
			if due > now {
				t.Fatalf("particle %d kicked at %v before due %v", i, now, due)
			}
		}
	}

	if landed != total || q.Len() != 0 {
		t.Errorf("landed %d of %d, %d left", landed, total, q.Len())
	}
}

func TestDrainAppliesToPreviousPositionOnly(t *testing.T) {
	l := newLattice(1)
	q := NewQueue(DefaultParams())
	p := l.At(5, 5)
	x, y := p.X, p.Y

	q.Schedule(l, x-30, y, 0)
	q.Drain(l, time.Second)

	if p.X != x || p.Y != y {
		t.Fatalf("current position moved to (%v,%v)", p.X, p.Y)
	}
	wantMag := Magnitude(30, DefaultMaxDistance, DefaultAmplitude)
	vx, vy := p.Velocity()
	if math.Abs(vx) > 1e-9 || math.Abs(vy-wantMag) > 1e-9 {
		t.Errorf("velocity = (%v,%v), want (0,%v)", vx, vy, wantMag)
	}
}

func TestRippleDeterminism(t *testing.T) {
	a, b := newLattice(1), newLattice(2)
	qa, qb := NewQueue(DefaultParams()), NewQueue(DefaultParams())

	qa.Schedule(a, 123, 321, 0)
	qb.Schedule(b, 123, 321, 0)
	qa.Drain(a, time.Second)
	qb.Drain(b, time.Second)

	for i := range a.Particles {
		pa, pb := a.Particles[i], b.Particles[i]
		if pa.PrevX != pb.PrevX || pa.PrevY != pb.PrevY {
			t.Fatalf("particle %d: kicks differ (%v,%v) vs (%v,%v)", i, pa.PrevX, pa.PrevY, pb.PrevX, pb.PrevY)
		}
		d := math.Hypot(pa.X-123, pa.Y-321)
		vx, vy := pa.Velocity()
		got := math.Hypot(vx, vy)
		want := 0.0
		if !pa.Pinned {
			want = Magnitude(d, DefaultMaxDistance, DefaultAmplitude)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("particle %d at d=%.1f: kick %v, want %v", i, d, got, want)
		}
	}
}

func TestDrainDiscardsStaleGeneration(t *testing.T) {
	old := newLattice(1)
	q := NewQueue(DefaultParams())
	q.Schedule(old, 250, 250, 0)

	fresh := lattice.Build(300, 200, lattice.DefaultOptions(), rand.New(rand.NewSource(1)))
	before := fresh.Snapshot()

	if n := q.Drain(fresh, time.Hour); n != 0 {
		t.Errorf("applied %d stale kicks", n)
	}
	if q.Len() != 0 {
		t.Errorf("stale kicks should be popped, %d left", q.Len())
	}
	for i := range fresh.Particles {
		if fresh.Particles[i] != before.Particles[i] {
			t.Fatalf("particle %d changed by a stale kick", i)
		}
	}
}

func TestClearAndNextDue(t *testing.T) {
	l := newLattice(1)
	q := NewQueue(DefaultParams())

	if _, ok := q.NextDue(); ok {
		t.Error("empty queue has nothing due")
	}

	q.Schedule(l, 250, 250, time.Second)
	due, ok := q.NextDue()
	if !ok || due < time.Second {
		t.Errorf("NextDue = %v,%v", due, ok)
	}

	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Clear left %d entries", q.Len())
	}
}
