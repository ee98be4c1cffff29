package sim_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/sim"
)

const frame = time.Second / 60

var _ = Describe("a 500x500 web", func() {
	var (
		s       *sim.Simulator
		initial *lattice.Lattice
	)

	build := func(opts sim.Options) {
		s = sim.New(500, 500, opts)
		initial = s.Lattice().Snapshot()
	}

	step := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(s.Step(time.Duration(i) * frame)).To(Succeed())
		}
	}

	maxDisplacement := func() float64 {
		worst := 0.0
		for i, p := range s.Lattice().Particles {
			if p.Pinned {
				continue
			}
			worst = math.Max(worst, math.Hypot(p.X-initial.Particles[i].OrigX, p.Y-initial.Particles[i].OrigY))
		}
		return worst
	}

	Context("with default physics", func() {
		BeforeEach(func() {
			build(sim.DefaultOptions())
		})

		It("is a 10x10 grid spanning the viewport", func() {
			l := s.Lattice()
			Expect(l.Cols).To(Equal(10))
			Expect(l.Rows).To(Equal(10))
			Expect(l.Spacing).To(BeNumerically("~", 500.0/9, 1e-9))
			Expect(l.Particles).To(HaveLen(100))
		})

		It("pins columns 0, 4, 8 and 9 of the top row only", func() {
			var pinned []int
			for i, p := range s.Lattice().Particles {
				if p.Pinned {
					pinned = append(pinned, i)
				}
			}
			Expect(pinned).To(Equal([]int{0, 4, 8, 9}))
		})

		When("a ripple starts at the centre and 60 frames run", func() {
			BeforeEach(func() {
				Expect(s.Ripple(250, 250, 0)).To(BeNumerically(">", 0))
				step(60)
			})

			It("keeps every position finite", func() {
				Expect(s.Lattice().IsValid()).To(BeTrue())
			})

			It("leaves the pinned particles exactly where they were", func() {
				for i, p := range s.Lattice().Particles {
					if !p.Pinned {
						continue
					}
					Expect(p.X).To(Equal(initial.Particles[i].X))
					Expect(p.Y).To(Equal(initial.Particles[i].Y))
				}
			})

			It("keeps the sagging web bounded by the restoring pull", func() {
				Expect(maxDisplacement()).To(BeNumerically("<", 100))
			})

			It("has drained the whole ripple", func() {
				Expect(s.Ripples().Len()).To(BeZero())
			})
		})
	})

	Context("without gravity, sway or wind", func() {
		BeforeEach(func() {
			opts := sim.DefaultOptions()
			opts.Physics.Gravity = 0
			opts.Physics.Sway = 0
			opts.WindEnabled = false
			build(opts)
			s.Ripple(250, 250, 0)
			step(60)
		})

		It("stays within 50 units of rest", func() {
			Expect(maxDisplacement()).To(BeNumerically("<", 50))
		})

		It("settles back toward rest", func() {
			early := maxDisplacement()
			for i := 61; i <= 1500; i++ {
				Expect(s.Step(time.Duration(i) * frame)).To(Succeed())
			}
			Expect(maxDisplacement()).To(BeNumerically("<", early))
		})
	})

	Context("after a resize", func() {
		It("drops pending ripples and never writes into the new web", func() {
			build(sim.DefaultOptions())
			s.Ripple(250, 250, 0)
			Expect(s.Ripples().Len()).To(BeNumerically(">", 0))

			s.Resize(300, 200, 0)
			fresh := s.Lattice().Snapshot()
			Expect(s.Ripples().Len()).To(BeZero())

			Expect(s.Step(frame)).To(Succeed())
			for i, p := range s.Lattice().Particles {
				if p.Pinned {
					Expect(p.X).To(Equal(fresh.Particles[i].X))
				}
			}
			Expect(s.Lattice().Particles).To(HaveLen(100))
		})
	})
})
