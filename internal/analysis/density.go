package analysis

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

// Band is one concentric ring of a radial histogram.
type Band struct {
	Inner   float64 `json:"inner"`
	Outer   float64 `json:"outer"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
	// Relative is Density divided by the density of a perfectly uniform
	// disk holding the same points; 1 means uniform.
	Relative float64 `json:"relative"`
}

// RadialDensity splits [0, radius] into equal-width bands and counts the
// points whose horizontal distance falls in each. Points beyond radius are
// ignored.
func RadialDensity(points []mgl64.Vec3, radius float64, bands int) []Band {
	if bands <= 0 || radius <= 0 {
		return nil
	}

	out := make([]Band, bands)
	width := radius / float64(bands)
	for i := range out {
		out[i].Inner = float64(i) * width
		out[i].Outer = float64(i+1) * width
	}

	total := 0
	for _, p := range points {
		d := geometry.HorizontalDistance(p)
		if d > radius {
			continue
		}
		idx := int(d / width)
		if idx >= bands {
			idx = bands - 1
		}
		out[idx].Count++
		total++
	}

	uniform := float64(total) / (math.Pi * radius * radius)
	for i := range out {
		b := &out[i]
		area := math.Pi * (b.Outer*b.Outer - b.Inner*b.Inner)
		b.Density = float64(b.Count) / area
		if uniform > 0 {
			b.Relative = b.Density / uniform
		}
	}

	return out
}

// Uniformity returns the mean relative density and its coefficient of
// variation across bands.
func Uniformity(bands []Band) (mean, cv float64) {
	if len(bands) == 0 {
		return 0, 0
	}
	rel := make([]float64, len(bands))
	for i, b := range bands {
		rel[i] = b.Relative
	}
	mean, std := stat.MeanStdDev(rel, nil)
	if mean == 0 {
		return 0, 0
	}
	return mean, std / mean
}

// SamplePositions draws n initial positions the same way a System does.
func SamplePositions(rng *rand.Rand, n int, c geometry.Containment) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = physics.RandomPointInCylinder(rng, c)
	}
	return pts
}

// SampleLinearRadius draws positions with an uncorrected radius, for
// comparison against SamplePositions.
func SampleLinearRadius(rng *rand.Rand, n int, c geometry.Containment) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		angle := rng.Float64() * 2 * math.Pi
		rad := rng.Float64() * c.InnerRadius()
		y := (2*rng.Float64() - 1) * c.InnerHalfHeight()
		pts[i] = mgl64.Vec3{rad * math.Cos(angle), y, rad * math.Sin(angle)}
	}
	return pts
}
