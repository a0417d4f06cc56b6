package physics

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/cylsim/internal/geometry"
)

// Frame is the render contract for one tick: a value copy of every particle.
type Frame struct {
	Tick      int        `json:"tick"`
	Particles []Particle `json:"particles"`
}

// System owns a fixed population of particles.
type System struct {
	containment geometry.Containment
	sampler     Sampler
	particles   []Particle
}

// NewSystem validates c and s and spawns n particles from rng.
func NewSystem(c geometry.Containment, s Sampler, n int, rng *rand.Rand) (*System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: particle count must be positive, got %d", geometry.ErrParameterBounds, n)
	}
	return &System{containment: c, sampler: s, particles: s.Spawn(rng, n, c)}, nil
}

// NewSystemFrom builds a system around an existing population. The slice is
// copied.
func NewSystemFrom(c geometry.Containment, ps []Particle) (*System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	owned := make([]Particle, len(ps))
	copy(owned, ps)
	return &System{containment: c, sampler: DefaultSampler(), particles: owned}, nil
}

func (s *System) Len() int                          { return len(s.particles) }
func (s *System) Containment() geometry.Containment { return s.containment }

// Particles returns a copy of the current population.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// View exposes the live population without copying. Callers must not
// modify it or retain it across steps.
func (s *System) View() []Particle { return s.particles }

// Respawn replaces the population with a fresh sample of the same size.
func (s *System) Respawn(rng *rand.Rand) {
	s.particles = s.sampler.Spawn(rng, len(s.particles), s.containment)
}

func (s *System) Step() Hits { return s.StepRange(0, len(s.particles)) }

// StepRange updates particles [start, end) in place.
func (s *System) StepRange(start, end int) Hits {
	var h Hits
	for i := start; i < end; i++ {
		var hit Collision
		s.particles[i], hit = Update(s.particles[i], s.containment)
		h.Record(hit)
	}
	return h
}

func (s *System) Frame(tick int) Frame {
	return Frame{Tick: tick, Particles: s.Particles()}
}

// FrameInto copies the population into dst, growing it if needed.
func (s *System) FrameInto(tick int, dst []Particle) Frame {
	if cap(dst) < len(s.particles) {
		dst = make([]Particle, len(s.particles))
	}
	dst = dst[:len(s.particles)]
	copy(dst, s.particles)
	return Frame{Tick: tick, Particles: dst}
}

func (s *System) KineticEnergy() float64 { return KineticEnergy(s.particles) }

// KineticEnergy is sum(|v|²)/2 with unit mass.
func KineticEnergy(ps []Particle) float64 {
	e := 0.0
	for _, p := range ps {
		e += p.Velocity.Dot(p.Velocity)
	}
	return e / 2
}
