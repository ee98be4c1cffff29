// Package ripple schedules time-staggered impulses that travel outward from
// an origin across the web.
//
// A ripple does not move particles directly. Each affected particle gets a
// queue entry that fires after a delay proportional to its distance from the
// origin; firing rewrites the particle's previous position, which the Verlet
// integrator then reads as a velocity kick perpendicular to the origin.
package ripple

import (
	"container/heap"
	"math"
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
)

const (
	DefaultMaxDistance  = 300.0
	DefaultAmplitude    = 15.0
	DefaultDelayPerUnit = 500 * time.Microsecond
)

type Params struct {
	MaxDistance  float64
	Amplitude    float64
	DelayPerUnit time.Duration
}

func DefaultParams() Params {
	return Params{
		MaxDistance:  DefaultMaxDistance,
		Amplitude:    DefaultAmplitude,
		DelayPerUnit: DefaultDelayPerUnit,
	}
}

// Magnitude of the kick at distance d: amp*(1-d/max)^2 inside max, 0 outside.
func Magnitude(d, maxDist, amp float64) float64 {
	if d >= maxDist {
		return 0
	}
	f := 1 - d/maxDist
	return amp * f * f
}

// Impulse rotates the origin->(x,y) direction by +90 degrees and scales it to
// magnitude. A particle sitting on the origin is kicked along +y.
func Impulse(ox, oy, x, y, magnitude float64) (float64, float64) {
	dx, dy := x-ox, y-oy
	d := math.Hypot(dx, dy)
	if d == 0 {
		return 0, magnitude
	}
	return -dy / d * magnitude, dx / d * magnitude
}

type entry struct {
	fireAt     time.Duration
	seq        uint64
	index      int
	generation uint64
	ox, oy     float64
	magnitude  float64
}

type entries []entry

func (e entries) Len() int { return len(e) }
func (e entries) Less(i, j int) bool {
	if e[i].fireAt != e[j].fireAt {
		return e[i].fireAt < e[j].fireAt
	}
	return e[i].seq < e[j].seq
}
func (e entries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e *entries) Push(x any)   { *e = append(*e, x.(entry)) }
func (e *entries) Pop() any {
	old := *e
	n := len(old)
	x := old[n-1]
	*e = old[:n-1]
	return x
}

// Queue holds pending kicks ordered by fire time.
type Queue struct {
	params  Params
	pending entries
	seq     uint64
}

func NewQueue(p Params) *Queue {
	return &Queue{params: p}
}

func (q *Queue) Params() Params { return q.params }

func (q *Queue) Len() int { return len(q.pending) }

// Clear drops every pending kick.
func (q *Queue) Clear() { q.pending = q.pending[:0] }

// Schedule enqueues a kick for every unpinned particle closer than
// MaxDistance to (ox, oy) and returns how many were scheduled.
func (q *Queue) Schedule(l *lattice.Lattice, ox, oy float64, now time.Duration) int {
	n := 0
	for i := range l.Particles {
		p := &l.Particles[i]
		if p.Pinned {
			continue
		}
		d := math.Hypot(p.X-ox, p.Y-oy)
		if d >= q.params.MaxDistance {
			continue
		}
		q.seq++
		heap.Push(&q.pending, entry{
			fireAt:     now + time.Duration(d*float64(q.params.DelayPerUnit)),
			seq:        q.seq,
			index:      i,
			generation: l.Generation,
			ox:         ox,
			oy:         oy,
			magnitude:  Magnitude(d, q.params.MaxDistance, q.params.Amplitude),
		})
		n++
	}
	return n
}

// Drain applies every kick due at or before now and returns how many landed.
// Kicks scheduled against a different lattice generation are discarded.
func (q *Queue) Drain(l *lattice.Lattice, now time.Duration) int {
	applied := 0
	for len(q.pending) > 0 && q.pending[0].fireAt <= now {
		e := heap.Pop(&q.pending).(entry)
		if e.generation != l.Generation || e.index < 0 || e.index >= len(l.Particles) {
			continue
		}
		p := &l.Particles[e.index]
		if p.Pinned {
			continue
		}
		ix, iy := Impulse(e.ox, e.oy, p.X, p.Y, e.magnitude)
		p.PrevX = p.X - ix
		p.PrevY = p.Y - iy
		applied++
	}
	return applied
}

// NextDue reports the fire time of the earliest pending kick.
func (q *Queue) NextDue() (time.Duration, bool) {
	if len(q.pending) == 0 {
		return 0, false
	}
	return q.pending[0].fireAt, true
}
