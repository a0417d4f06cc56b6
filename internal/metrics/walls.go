package metrics

import (
	"math"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

// WallHits counts velocity flips against the wall and caps.
type WallHits struct {
	name  string
	total physics.Hits
}

func NewWallHits() *WallHits {
	return &WallHits{name: "wall_hits"}
}

func (w *WallHits) Name() string { return w.name }

func (w *WallHits) Observe(_ []physics.Particle, h physics.Hits, _ int) {
	w.total = w.total.Add(h)
}

func (w *WallHits) Value() float64       { return float64(w.total.Bounces()) }
func (w *WallHits) Totals() physics.Hits { return w.total }
func (w *WallHits) Reset()               { w.total = physics.Hits{} }

func (w *WallHits) Report() map[string]float64 {
	t := w.Totals()
	return map[string]float64{
		"wall_hits_side":   float64(t.Reflected),
		"wall_hits_top":    float64(t.Top),
		"wall_hits_bottom": float64(t.Bottom),
		"wall_grazes":      float64(t.Side - t.Reflected),
	}
}

// Containment records the worst excursion outside the containment bounds.
// It stays at zero while the invariant holds.
type Containment struct {
	name       string
	geom       geometry.Containment
	maxExcess  float64
	violations int
	tolerance  float64
}

func NewContainment(c geometry.Containment, tolerance float64) *Containment {
	return &Containment{
		name:      "containment_excess",
		geom:      c,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(ps []physics.Particle, _ physics.Hits, _ int) {
	for _, p := range ps {
		ex := c.geom.Excess(p.Position)
		if ex > c.tolerance {
			c.violations++
		}
		c.maxExcess = math.Max(c.maxExcess, ex)
	}
}

func (c *Containment) Value() float64  { return c.maxExcess }
func (c *Containment) Violations() int { return c.violations }

func (c *Containment) Report() map[string]float64 {
	return map[string]float64{"containment_violations": float64(c.Violations())}
}

func (c *Containment) Reset() {
	c.maxExcess = 0
	c.violations = 0
}
