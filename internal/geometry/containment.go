package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultCylinderRadius = 200.0
	DefaultCylinderHeight = 400.0
	DefaultParticleRadius = 5.0
	DefaultMargin         = 20.0
)

// ErrParameterBounds indicates a containment constant is outside its valid range.
var ErrParameterBounds = errors.New("geometry: parameter out of valid bounds")

// Containment holds the cylinder and particle constants. It is a value type
// and is never mutated once a system is built from it.
type Containment struct {
	CylinderRadius float64 `json:"cylinder_radius"`
	CylinderHeight float64 `json:"cylinder_height"`
	ParticleRadius float64 `json:"particle_radius"`
	Margin         float64 `json:"margin"`
}

func Default() Containment {
	return Containment{
		CylinderRadius: DefaultCylinderRadius,
		CylinderHeight: DefaultCylinderHeight,
		ParticleRadius: DefaultParticleRadius,
		Margin:         DefaultMargin,
	}
}

func (c Containment) HalfHeight() float64 { return c.CylinderHeight / 2 }

// InnerRadius is the largest horizontal distance a particle centre may reach.
func (c Containment) InnerRadius() float64 { return c.CylinderRadius - c.ParticleRadius }

// InnerHalfHeight is the largest |y| a particle centre may reach.
func (c Containment) InnerHalfHeight() float64 { return c.HalfHeight() - c.ParticleRadius }

func (c Containment) OuterSphereRadius() float64 {
	return math.Hypot(c.CylinderRadius, c.HalfHeight()) + c.Margin
}

// Validate checks the preconditions the collision update relies on.
func (c Containment) Validate() error {
	switch {
	case c.CylinderRadius <= 0:
		return fmt.Errorf("%w: cylinder radius must be positive, got %g", ErrParameterBounds, c.CylinderRadius)
	case c.CylinderHeight <= 0:
		return fmt.Errorf("%w: cylinder height must be positive, got %g", ErrParameterBounds, c.CylinderHeight)
	case c.ParticleRadius <= 0:
		return fmt.Errorf("%w: particle radius must be positive, got %g", ErrParameterBounds, c.ParticleRadius)
	case c.ParticleRadius >= c.CylinderRadius:
		return fmt.Errorf("%w: particle radius %g must be smaller than cylinder radius %g",
			ErrParameterBounds, c.ParticleRadius, c.CylinderRadius)
	case c.ParticleRadius >= c.HalfHeight():
		return fmt.Errorf("%w: particle radius %g must be smaller than half the cylinder height %g",
			ErrParameterBounds, c.ParticleRadius, c.HalfHeight())
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must not be negative, got %g", ErrParameterBounds, c.Margin)
	}
	return nil
}

// HorizontalDistance is the distance of p from the cylinder axis.
func HorizontalDistance(p mgl64.Vec3) float64 {
	return math.Hypot(p.X(), p.Z())
}

// Excess reports how far p lies outside the region particle centres may
// occupy. It is zero for points inside.
func (c Containment) Excess(p mgl64.Vec3) float64 {
	side := HorizontalDistance(p) - c.InnerRadius()
	caps := math.Abs(p.Y()) - c.InnerHalfHeight()
	return math.Max(0, math.Max(side, caps))
}

func (c Containment) Contains(p mgl64.Vec3, tol float64) bool {
	return c.Excess(p) <= tol
}
