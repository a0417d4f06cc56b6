package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/cylsim/internal/geometry"
)

func TestRandomPointInCylinder_Bounds(t *testing.T) {
	c := geometry.Default()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		p := RandomPointInCylinder(rng, c)
		if !c.Contains(p, 1e-9) {
			t.Fatalf("sample %d outside containment: %v", i, p)
		}
	}
}

func TestRandomPointInCylinder_AreaWeighted(t *testing.T) {
	c := geometry.Default()
	rng := rand.New(rand.NewSource(2))

	// E[r²] = R²/2 for a uniform disk, R²/3 for linear radius sampling.
	const n = 50000
	sum := 0.0
	for i := 0; i < n; i++ {
		d := geometry.HorizontalDistance(RandomPointInCylinder(rng, c))
		sum += d * d
	}
	got := sum / n / (c.InnerRadius() * c.InnerRadius())
	if math.Abs(got-0.5) > 0.01 {
		t.Errorf("mean r²/R² = %.4f, want ~0.5", got)
	}
}

func TestRandomDirection_Unit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var mean [3]float64
	const n = 20000
	for i := 0; i < n; i++ {
		d := RandomDirection(rng)
		if math.Abs(d.Len()-1) > 1e-12 {
			t.Fatalf("direction %v has length %v", d, d.Len())
		}
		for k := range mean {
			mean[k] += d[k] / n
		}
	}
	for k, m := range mean {
		if math.Abs(m) > 0.02 {
			t.Errorf("axis %d mean = %.4f, want ~0", k, m)
		}
	}
}

func TestSpawn(t *testing.T) {
	c := geometry.Default()
	s := DefaultSampler()
	ps := s.Spawn(rand.New(rand.NewSource(4)), 500, c)

	if len(ps) != 500 {
		t.Fatalf("expected 500 particles, got %d", len(ps))
	}
	for i, p := range ps {
		if sp := p.Speed(); sp < s.SpeedMin || sp >= s.SpeedMax+1e-12 {
			t.Errorf("particle %d speed %v outside [%v, %v)", i, sp, s.SpeedMin, s.SpeedMax)
		}
		for _, ch := range []uint8{p.Color.R, p.Color.G, p.Color.B} {
			if ch < s.ColorMin {
				t.Errorf("particle %d colour channel %d below %d", i, ch, s.ColorMin)
			}
		}
		if p.Radius != c.ParticleRadius {
			t.Errorf("particle %d radius %v, want %v", i, p.Radius, c.ParticleRadius)
		}
	}
}

func TestSpawn_Deterministic(t *testing.T) {
	c := geometry.Default()
	a := DefaultSampler().Spawn(rand.New(rand.NewSource(99)), 10, c)
	b := DefaultSampler().Spawn(rand.New(rand.NewSource(99)), 10, c)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{R: 255, G: 100, B: 0}).Hex(); got != "#ff6400" {
		t.Errorf("Hex() = %q, want #ff6400", got)
	}
}
