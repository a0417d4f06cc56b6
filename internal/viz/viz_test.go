package viz

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/cylsim/internal/config"
	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

func TestCanvasSetAndLit(t *testing.T) {
	c := NewCanvas(4, 2)
	pw, ph := c.PixelSize()
	if pw != 8 || ph != 8 {
		t.Fatalf("expected 8x8 pixels, got %dx%d", pw, ph)
	}

	c.SetColor(3, 5, "#ff0000")
	if !c.Lit(3, 5) {
		t.Error("expected pixel lit")
	}
	if c.Lit(2, 5) {
		t.Error("neighbour should stay dark")
	}
	if c.Colors[1][1] != "#ff0000" {
		t.Errorf("expected cell tint, got %q", c.Colors[1][1])
	}

	// out of range writes are dropped
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.Lit(3, 5) || c.Colors[1][1] != "" {
		t.Error("clear left state behind")
	}
	if strings.ContainsRune(c.String(), 0x2801) {
		t.Error("cleared canvas should be blank")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19, "")
	for i := 0; i < 20; i++ {
		if !c.Lit(i, i) {
			t.Fatalf("diagonal pixel %d not lit", i)
		}
	}
}

func TestCameraProjectCentre(t *testing.T) {
	cam := NewCamera(100)
	x, y, _, scale, ok := cam.Project(mgl64.Vec3{}, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("origin should land at centre, got (%d,%d) visible=%v", x, y, ok)
	}
	if scale <= 0 {
		t.Errorf("expected positive scale, got %f", scale)
	}

	// +y is up on screen
	_, yUp, _, _, _ := cam.Project(mgl64.Vec3{0, 50, 0}, 160, 96)
	if yUp >= y {
		t.Errorf("expected y=50 above centre, got %d", yUp)
	}
}

func TestCameraExtentFitsScreen(t *testing.T) {
	cam := NewCamera(100)
	// A point on the extent at depth zero lands on the edge of the shorter side.
	_, y, _, _, _ := cam.Project(mgl64.Vec3{0, 100, 0}, 200, 100)
	if y < -1 || y > 1 {
		t.Errorf("expected y near 0, got %d", y)
	}
}

func TestMotionApply(t *testing.T) {
	m := Motion{RotationSpeed: 0.005, ZoomAmplitude: 0.3, ZoomSpeed: 0.005, BaseZoom: 1}
	cam := NewCamera(1)

	m.Apply(cam, 0)
	if cam.RotX != 0 || cam.RotY != 0 || cam.Zoom != 1 {
		t.Errorf("unexpected camera at tick 0: %+v", cam)
	}

	m.Apply(cam, 100)
	if math.Abs(cam.RotY-0.5) > 1e-12 || math.Abs(cam.RotX-0.25) > 1e-12 {
		t.Errorf("unexpected rotation %f %f", cam.RotX, cam.RotY)
	}
	want := 1 + 0.3*math.Sin(0.5)
	if math.Abs(cam.Zoom-want) > 1e-12 {
		t.Errorf("expected zoom %f, got %f", want, cam.Zoom)
	}
}

func TestWireframes(t *testing.T) {
	g := geometry.Default()
	cyl := CylinderWireframe(g, 16, 4, "#fff")
	if len(cyl.Edges) != 2*16+4 {
		t.Errorf("expected 36 cylinder edges, got %d", len(cyl.Edges))
	}
	for _, e := range cyl.Edges {
		if d := geometry.HorizontalDistance(e.Start); math.Abs(d-g.CylinderRadius) > 1e-9 {
			t.Fatalf("cylinder vertex off the wall: %f", d)
		}
	}

	r := g.OuterSphereRadius()
	sph := SphereWireframe(r, 3, 4, 12, "#fff")
	if len(sph.Edges) != (3+4)*12 {
		t.Errorf("expected 84 sphere edges, got %d", len(sph.Edges))
	}
	for _, e := range sph.Edges {
		if math.Abs(e.Start.Len()-r) > 1e-9 {
			t.Fatalf("sphere vertex off the surface: %f", e.Start.Len())
		}
	}

	c := NewCanvas(40, 20)
	Render3D(c, cyl, NewCamera(r))
	if c.String() == NewCanvas(40, 20).String() {
		t.Error("render produced an empty canvas")
	}
}

func TestTrailFade(t *testing.T) {
	tests := []struct {
		alpha     int
		survives1 bool
	}{
		{255, false},
		{20, true},
		{0, true},
	}
	for _, tt := range tests {
		tr := NewTrail(4, 4, tt.alpha)
		tr.Stamp(1, 1, "#abcdef")
		tr.Fade()
		if got := tr.Intensity(1, 1) > 0; got != tt.survives1 {
			t.Errorf("alpha %d: survives one fade = %v, want %v", tt.alpha, got, tt.survives1)
		}
	}

	tr := NewTrail(4, 4, 20)
	tr.Stamp(2, 2, "#ffffff")
	frames := 0
	for tr.Intensity(2, 2) > 0 {
		tr.Fade()
		frames++
		if frames > 1000 {
			t.Fatal("trail never faded")
		}
	}
	// 0.92^n < 0.15 first at n = 24
	if frames < 20 || frames > 26 {
		t.Errorf("unexpected trail length %d", frames)
	}
}

func TestTrailDraw(t *testing.T) {
	tr := NewTrail(8, 8, 20)
	tr.StampDisc(4, 4, 1.5, "#00ff00")
	c := NewCanvas(4, 2)
	tr.Draw(c)
	for _, p := range [][2]int{{4, 4}, {5, 4}, {4, 5}, {3, 4}, {4, 3}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("expected %v lit", p)
		}
	}
	if c.Lit(0, 0) {
		t.Error("corner should be dark")
	}
}

func newTestSystem(t *testing.T, n int) (*physics.System, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles = n
	cfg.Seed = 3
	sys, err := physics.NewSystem(cfg.Containment(), cfg.Sampler(), n, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		t.Fatal(err)
	}
	return sys, cfg
}

func TestSceneDrawsParticles(t *testing.T) {
	sys, cfg := newTestSystem(t, 10)
	s := NewScene(60, 30, sys.Containment(), cfg.Camera, cfg.Trail.Alpha)
	s.Draw(sys.Frame(0), ThemeNight)

	tinted := 0
	for _, row := range s.Canvas.Colors {
		for _, hex := range row {
			if hex != "" && hex != ThemeNight.Cylinder && hex != ThemeNight.Sphere {
				tinted++
			}
		}
	}
	if tinted == 0 {
		t.Error("expected particle-coloured cells")
	}

	s.Reset()
	if s.Trail.Intensity(0, 0) != 0 {
		t.Error("reset should clear trail")
	}
}

func TestModelUpdate(t *testing.T) {
	sys, cfg := newTestSystem(t, 5)
	initial := sys.Particles()
	m := NewModel(sys, cfg, "default")

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(Model)
	if m.tick != 1 || len(m.bounces) != 1 || len(m.caps) != 1 {
		t.Errorf("expected one step, tick=%d history=%d/%d", m.tick, len(m.bounces), len(m.caps))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.tick != 1 {
		t.Error("paused model should not step")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	if m.tick != 2 {
		t.Errorf("n should single step, tick=%d", m.tick)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.tick != 0 || len(m.caps) != 0 {
		t.Errorf("reset should zero the tick and history, got %d/%d", m.tick, len(m.caps))
	}
	for i, p := range sys.View() {
		if p != initial[i] {
			t.Fatalf("particle %d not respawned from seed", i)
		}
	}

	view := m.View()
	for _, want := range []string{"PAUSED", "Speed", "Caps"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestNextTheme(t *testing.T) {
	seen := map[string]bool{}
	th := ThemeNight
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th.Name)
	}
	if len(seen) != len(Themes) || th.Name != ThemeNight.Name {
		t.Errorf("theme cycle broken: %v", seen)
	}
}

func TestShareBarAndSparkline(t *testing.T) {
	if got := ShareBar(1, 2, 10); got != strings.Repeat("█", 5)+strings.Repeat("░", 5) {
		t.Errorf("unexpected bar %q", got)
	}
	if got := ShareBar(0, 0, 4); got != "░░░░" {
		t.Errorf("unexpected empty bar %q", got)
	}
	if got := []rune(Sparkline([]float64{0, 1, 2, 3}, 10)); len(got) != 4 || got[0] != '▁' || got[3] != '█' {
		t.Errorf("unexpected sparkline %q", string(got))
	}
}
