package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cylsim/internal/geometry"
)

const (
	DefaultSpeedMin = 1.0
	DefaultSpeedMax = 3.0
	DefaultColorMin = 100
	DefaultColorMax = 255
)

// Sampler draws the initial state of a particle population.
type Sampler struct {
	SpeedMin float64
	SpeedMax float64
	ColorMin uint8
	ColorMax uint8
}

func DefaultSampler() Sampler {
	return Sampler{
		SpeedMin: DefaultSpeedMin,
		SpeedMax: DefaultSpeedMax,
		ColorMin: DefaultColorMin,
		ColorMax: DefaultColorMax,
	}
}

func (s Sampler) Validate() error {
	if s.SpeedMin < 0 || s.SpeedMax < s.SpeedMin {
		return fmt.Errorf("%w: speed range [%g, %g) is invalid", geometry.ErrParameterBounds, s.SpeedMin, s.SpeedMax)
	}
	if s.ColorMax < s.ColorMin {
		return fmt.Errorf("%w: color range [%d, %d] is invalid", geometry.ErrParameterBounds, s.ColorMin, s.ColorMax)
	}
	return nil
}

// RandomPointInCylinder returns a point uniformly distributed over the volume
// particle centres may occupy. The radial fraction is square-rooted so the
// areal density is flat across the disk instead of piling up at the axis.
func RandomPointInCylinder(rng *rand.Rand, c geometry.Containment) mgl64.Vec3 {
	angle := rng.Float64() * 2 * math.Pi
	rad := math.Sqrt(rng.Float64()) * c.InnerRadius()
	y := (2*rng.Float64() - 1) * c.InnerHalfHeight()
	return mgl64.Vec3{rad * math.Cos(angle), y, rad * math.Sin(angle)}
}

// RandomDirection returns a unit vector uniformly distributed on the sphere.
func RandomDirection(rng *rand.Rand) mgl64.Vec3 {
	angle := rng.Float64() * 2 * math.Pi
	vz := 2*rng.Float64() - 1
	s := math.Sqrt(1 - vz*vz)
	return mgl64.Vec3{s * math.Cos(angle), s * math.Sin(angle), vz}
}

func (s Sampler) Speed(rng *rand.Rand) float64 {
	return s.SpeedMin + rng.Float64()*(s.SpeedMax-s.SpeedMin)
}

func (s Sampler) Color(rng *rand.Rand) RGB {
	span := int(s.ColorMax) - int(s.ColorMin) + 1
	channel := func() uint8 { return uint8(int(s.ColorMin) + rng.Intn(span)) }
	return RGB{R: channel(), G: channel(), B: channel()}
}

// Spawn creates n particles inside c.
func (s Sampler) Spawn(rng *rand.Rand, n int, c geometry.Containment) []Particle {
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{
			Position: RandomPointInCylinder(rng, c),
			Velocity: RandomDirection(rng).Mul(s.Speed(rng)),
			Color:    s.Color(rng),
			Radius:   c.ParticleRadius,
		}
	}
	return ps
}
