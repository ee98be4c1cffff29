package pointer

import "time"

const (
	DefaultInfluenceRadius = 180.0
	DefaultIdleThreshold   = 300 * time.Millisecond
	DefaultDecayRate       = 0.01
)

// State tracks the pointer (mouse or touch) over the drawing surface.
// Strength gates pointer influence: it snaps to 1 on movement and fades
// linearly once the pointer has been idle for longer than IdleThreshold.
type State struct {
	X, Y         float64
	PrevX, PrevY float64
	VelX, VelY   float64
	OnSurface    bool
	Pressed      bool
	Strength     float64
	LastMove     time.Duration

	IdleThreshold time.Duration
	DecayRate     float64
}

func New() *State {
	return &State{
		Strength:      1,
		IdleThreshold: DefaultIdleThreshold,
		DecayRate:     DefaultDecayRate,
	}
}

// Reset parks the pointer at (cx, cy) with no velocity, off the surface.
func (s *State) Reset(cx, cy float64, now time.Duration) {
	s.X, s.Y = cx, cy
	s.PrevX, s.PrevY = cx, cy
	s.VelX, s.VelY = 0, 0
	s.OnSurface = false
	s.Pressed = false
	s.Strength = 1
	s.LastMove = now
}

func (s *State) Enter(now time.Duration) {
	s.OnSurface = true
	s.LastMove = now
	s.Strength = 1
}

// Leave drops influence immediately, without decay.
func (s *State) Leave() {
	s.OnSurface = false
	s.Pressed = false
	s.Strength = 0
}

func (s *State) Move(x, y float64, now time.Duration) {
	s.PrevX, s.PrevY = s.X, s.Y
	s.X, s.Y = x, y
	s.VelX, s.VelY = s.X-s.PrevX, s.Y-s.PrevY
	s.LastMove = now
	s.Strength = 1
}

// Press places the pointer at (x, y) and marks it down. Mouse and touch share
// this path; velocity is cleared so a touch landing far away does not fling.
func (s *State) Press(x, y float64, now time.Duration) {
	s.X, s.Y = x, y
	s.PrevX, s.PrevY = x, y
	s.VelX, s.VelY = 0, 0
	s.OnSurface = true
	s.Pressed = true
	s.LastMove = now
	s.Strength = 1
}

func (s *State) Release() {
	s.Pressed = false
}

// Decay fades Strength by DecayRate when the pointer has been idle.
func (s *State) Decay(now time.Duration) {
	if !s.Idle(now) {
		return
	}
	s.Strength -= s.DecayRate
	if s.Strength < 0 {
		s.Strength = 0
	}
}

// Idle reports whether the pointer has not moved for longer than the threshold.
func (s *State) Idle(now time.Duration) bool {
	return now-s.LastMove > s.IdleThreshold
}

// Influences reports whether the pointer currently perturbs the web.
func (s *State) Influences() bool {
	return s.OnSurface && !s.Pressed && s.Strength > 0
}
