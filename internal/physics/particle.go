package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cylsim/internal/geometry"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Particle is a plain record; all behaviour lives in free functions.
type Particle struct {
	Position mgl64.Vec3 `json:"pos"`
	Velocity mgl64.Vec3 `json:"vel"`
	Color    RGB        `json:"color"`
	Radius   float64    `json:"radius"`
}

func (p Particle) Speed() float64 { return p.Velocity.Len() }

// Collision describes what happened to a particle during one Update.
type Collision struct {
	// Side is set whenever the particle was past the curved wall and got
	// clamped back onto it.
	Side bool
	// Reflected is set when the side hit also flipped the outward velocity.
	Reflected bool
	Top       bool
	Bottom    bool
}

func (c Collision) Any() bool { return c.Side || c.Top || c.Bottom }

// Update advances p by one tick inside c and returns the new state.
func Update(p Particle, c geometry.Containment) (Particle, Collision) {
	var hit Collision

	p.Position = p.Position.Add(p.Velocity)

	limit := c.CylinderRadius - p.Radius
	if d := geometry.HorizontalDistance(p.Position); d > limit {
		hit.Side = true
		n := mgl64.Vec3{p.Position.X() / d, 0, p.Position.Z() / d}

		// only reflect while still heading outward
		if dot := p.Velocity.Dot(n); dot > 0 {
			p.Velocity = p.Velocity.Sub(n.Mul(2 * dot))
			hit.Reflected = true
		}

		p.Position[0] = n.X() * limit
		p.Position[2] = n.Z() * limit
	}

	top := c.HalfHeight() - p.Radius
	if p.Position.Y() > top {
		p.Position[1] = top
		p.Velocity[1] = -p.Velocity[1]
		hit.Top = true
	}
	if p.Position.Y() < -top {
		p.Position[1] = -top
		p.Velocity[1] = -p.Velocity[1]
		hit.Bottom = true
	}

	return p, hit
}

// Hits aggregates collisions over a set of updates.
type Hits struct {
	Side      int `json:"side"`
	Reflected int `json:"reflected"`
	Top       int `json:"top"`
	Bottom    int `json:"bottom"`
}

func (h *Hits) Record(c Collision) {
	if c.Side {
		h.Side++
	}
	if c.Reflected {
		h.Reflected++
	}
	if c.Top {
		h.Top++
	}
	if c.Bottom {
		h.Bottom++
	}
}

func (h Hits) Add(o Hits) Hits {
	return Hits{
		Side:      h.Side + o.Side,
		Reflected: h.Reflected + o.Reflected,
		Top:       h.Top + o.Top,
		Bottom:    h.Bottom + o.Bottom,
	}
}

// Bounces counts velocity flips: side reflections plus cap hits.
func (h Hits) Bounces() int { return h.Reflected + h.Top + h.Bottom }
