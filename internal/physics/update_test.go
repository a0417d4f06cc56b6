package physics_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

const tol = 1e-9

var _ = Describe("Update", func() {
	var c geometry.Containment

	particleAt := func(pos, vel mgl64.Vec3) physics.Particle {
		return physics.Particle{Position: pos, Velocity: vel, Radius: c.ParticleRadius}
	}

	BeforeEach(func() {
		c = geometry.Default()
	})

	It("moves a particle in a straight line when nothing is hit", func() {
		p, hit := physics.Update(particleAt(mgl64.Vec3{10, 20, 30}, mgl64.Vec3{1, -2, 0.5}), c)

		Expect(hit.Any()).To(BeFalse())
		Expect(p.Position).To(Equal(mgl64.Vec3{11, 18, 30.5}))
		Expect(p.Velocity).To(Equal(mgl64.Vec3{1, -2, 0.5}))
	})

	It("clamps to the wall and flips an outward radial velocity", func() {
		p, hit := physics.Update(particleAt(mgl64.Vec3{199, 0, 0}, mgl64.Vec3{5, 0, 0}), c)

		Expect(hit.Side).To(BeTrue())
		Expect(hit.Reflected).To(BeTrue())
		Expect(geometry.HorizontalDistance(p.Position)).To(BeNumerically("~", 195, tol))
		Expect(p.Velocity.X()).To(BeNumerically("~", -5, tol))
	})

	It("preserves speed on a side bounce", func() {
		in := particleAt(mgl64.Vec3{193, 0, 20}, mgl64.Vec3{3, 1, 2})
		p, hit := physics.Update(in, c)

		Expect(hit.Reflected).To(BeTrue())
		Expect(hit.Top || hit.Bottom).To(BeFalse())
		Expect(p.Speed()).To(BeNumerically("~", in.Speed(), tol))
		Expect(p.Velocity.Y()).To(Equal(1.0))
	})

	It("leaves vertical velocity alone on a side bounce", func() {
		p, _ := physics.Update(particleAt(mgl64.Vec3{0, 0, -194}, mgl64.Vec3{0, -0.75, -4}), c)

		Expect(p.Velocity.Y()).To(Equal(-0.75))
		Expect(p.Velocity.Z()).To(BeNumerically("~", 4, tol))
	})

	It("leaves a particle resting exactly on the wall untouched when it moves vertically", func() {
		// the side branch needs d > R - r, so d == R - r is not a hit
		in := particleAt(mgl64.Vec3{195, 0, 0}, mgl64.Vec3{0, 1, 0})
		p, hit := physics.Update(in, c)

		Expect(hit.Any()).To(BeFalse())
		Expect(p.Position).To(Equal(mgl64.Vec3{195, 1, 0}))
		Expect(p.Velocity).To(Equal(in.Velocity))
	})

	It("reflects a particle sliding along the wall tangent", func() {
		// a tangential step ends just outside the wall, so the small outward
		// normal component is flipped and the particle is pulled back onto it
		in := particleAt(mgl64.Vec3{195, 0, 0}, mgl64.Vec3{0, 0, 2})
		p, hit := physics.Update(in, c)

		Expect(hit.Reflected).To(BeTrue())
		Expect(p.Velocity.X()).To(BeNumerically("<", 0))
		Expect(p.Speed()).To(BeNumerically("~", in.Speed(), tol))
		Expect(geometry.HorizontalDistance(p.Position)).To(BeNumerically("~", 195, tol))
	})

	It("re-clamps a receding particle without reflecting it", func() {
		// starts outside the wall at d = 197, moving vertically
		in := particleAt(mgl64.Vec3{197, 0, 0}, mgl64.Vec3{0, 1, 0})
		p, hit := physics.Update(in, c)

		Expect(hit.Side).To(BeTrue())
		Expect(hit.Reflected).To(BeFalse())
		Expect(p.Velocity).To(Equal(in.Velocity))
		Expect(geometry.HorizontalDistance(p.Position)).To(BeNumerically("~", 195, tol))
	})

	It("does not reflect a particle already moving inward past the wall", func() {
		in := particleAt(mgl64.Vec3{0, 0, 198}, mgl64.Vec3{0.5, 0, -1})
		p, hit := physics.Update(in, c)

		Expect(hit.Reflected).To(BeFalse())
		Expect(p.Velocity).To(Equal(in.Velocity))
		Expect(geometry.HorizontalDistance(p.Position)).To(BeNumerically("~", 195, tol))
	})

	It("clamps exactly onto the top cap and flips vertical velocity", func() {
		const eps = 1e-3
		p, hit := physics.Update(particleAt(mgl64.Vec3{0, 195 + eps, 0}, mgl64.Vec3{0, 3, 0}), c)

		Expect(hit.Top).To(BeTrue())
		Expect(p.Position.Y()).To(Equal(195.0))
		Expect(p.Velocity.Y()).To(Equal(-3.0))
	})

	It("clamps onto the bottom cap", func() {
		p, hit := physics.Update(particleAt(mgl64.Vec3{5, -194, 5}, mgl64.Vec3{0, -2.5, 0}), c)

		Expect(hit.Bottom).To(BeTrue())
		Expect(p.Position.Y()).To(Equal(-195.0))
		Expect(p.Velocity.Y()).To(Equal(2.5))
	})

	It("handles side and cap independently in the same tick", func() {
		p, hit := physics.Update(particleAt(mgl64.Vec3{194, 194, 0}, mgl64.Vec3{2, 2, 0}), c)

		Expect(hit.Side).To(BeTrue())
		Expect(hit.Top).To(BeTrue())
		Expect(p.Position.X()).To(BeNumerically("~", 195, tol))
		Expect(p.Position.Y()).To(Equal(195.0))
		Expect(p.Velocity.X()).To(BeNumerically("~", -2, tol))
		Expect(p.Velocity.Y()).To(Equal(-2.0))
	})
})

var _ = Describe("System", func() {
	It("keeps every particle contained over many ticks", func() {
		c := geometry.Default()
		sys, err := physics.NewSystem(c, physics.DefaultSampler(), 25, rand.New(rand.NewSource(7)))
		Expect(err).NotTo(HaveOccurred())

		for tick := 0; tick < 5000; tick++ {
			sys.Step()
			for _, p := range sys.View() {
				Expect(c.Excess(p.Position)).To(BeNumerically("<=", tol))
			}
		}
	})

	It("keeps fast particles contained", func() {
		c := geometry.Default()
		s := physics.Sampler{SpeedMin: 100, SpeedMax: 400, ColorMin: 0, ColorMax: 255}
		sys, err := physics.NewSystem(c, s, 50, rand.New(rand.NewSource(11)))
		Expect(err).NotTo(HaveOccurred())

		for tick := 0; tick < 500; tick++ {
			sys.Step()
			for _, p := range sys.View() {
				Expect(c.Contains(p.Position, tol)).To(BeTrue())
			}
		}
	})

	It("conserves total kinetic energy", func() {
		sys, err := physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 25, rand.New(rand.NewSource(3)))
		Expect(err).NotTo(HaveOccurred())

		e0 := sys.KineticEnergy()
		for tick := 0; tick < 2000; tick++ {
			sys.Step()
		}
		Expect(math.Abs(sys.KineticEnergy()-e0) / e0).To(BeNumerically("<", 1e-9))
	})

	It("counts hits per step", func() {
		c := geometry.Default()
		sys, err := physics.NewSystemFrom(c, []physics.Particle{
			{Position: mgl64.Vec3{199, 0, 0}, Velocity: mgl64.Vec3{5, 0, 0}, Radius: 5},
			{Position: mgl64.Vec3{0, 194, 0}, Velocity: mgl64.Vec3{0, 3, 0}, Radius: 5},
			{Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Radius: 5},
		})
		Expect(err).NotTo(HaveOccurred())

		h := sys.Step()
		Expect(h).To(Equal(physics.Hits{Side: 1, Reflected: 1, Top: 1}))
		Expect(h.Bounces()).To(Equal(2))
	})

	It("hands out copies in frames", func() {
		sys, err := physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 5, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())

		f := sys.Frame(0)
		f.Particles[0].Position = mgl64.Vec3{1e6, 0, 0}
		Expect(sys.View()[0].Position).NotTo(Equal(f.Particles[0].Position))

		buf := make([]physics.Particle, 0, 5)
		f = sys.FrameInto(1, buf)
		Expect(f.Tick).To(Equal(1))
		Expect(f.Particles).To(HaveLen(5))
	})

	It("rejects invalid construction", func() {
		rng := rand.New(rand.NewSource(1))
		bad := geometry.Default()
		bad.ParticleRadius = 250

		_, err := physics.NewSystem(bad, physics.DefaultSampler(), 10, rng)
		Expect(err).To(MatchError(geometry.ErrParameterBounds))

		_, err = physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 0, rng)
		Expect(err).To(MatchError(geometry.ErrParameterBounds))

		_, err = physics.NewSystem(geometry.Default(), physics.Sampler{SpeedMin: 3, SpeedMax: 1}, 10, rng)
		Expect(err).To(MatchError(geometry.ErrParameterBounds))
	})
})
