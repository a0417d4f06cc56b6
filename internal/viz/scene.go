package viz

import (
	"github.com/san-kum/cylsim/internal/config"
	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

// Scene owns everything needed to turn frames into canvas pixels: the
// camera path, the trail buffer and the static wireframes.
type Scene struct {
	Canvas *Canvas
	Camera *Camera
	Motion Motion
	Trail  *Trail
	// ZoomBias scales the scripted zoom; the live view adjusts it.
	ZoomBias float64

	geom      geometry.Containment
	wireTheme string
	wire      *Wireframe
}

func NewScene(w, h int, g geometry.Containment, cam config.CameraConfig, trailAlpha int) *Scene {
	c := NewCanvas(w, h)
	pw, ph := c.PixelSize()
	return &Scene{
		Canvas: c,
		Camera: NewCamera(g.OuterSphereRadius() * 1.05),
		Motion: Motion{
			RotationSpeed: cam.RotationSpeed,
			ZoomAmplitude: cam.ZoomAmplitude,
			ZoomSpeed:     cam.ZoomSpeed,
			BaseZoom:      cam.BaseZoom,
		},
		Trail:    NewTrail(pw, ph, trailAlpha),
		ZoomBias: 1,
		geom:     g,
	}
}

func (s *Scene) wireframe(t Theme) *Wireframe {
	if s.wire == nil || s.wireTheme != t.Name {
		w := SphereWireframe(s.geom.OuterSphereRadius(), 5, 6, 32, t.Sphere)
		w.Merge(CylinderWireframe(s.geom, 32, 8, t.Cylinder))
		s.wire, s.wireTheme = w, t.Name
	}
	return s.wire
}

// Draw renders one frame: wireframes first, then the fading particle trail
// so particle colours win shared cells.
func (s *Scene) Draw(f physics.Frame, t Theme) {
	s.Motion.Apply(s.Camera, f.Tick)
	s.Camera.Zoom *= s.ZoomBias

	s.Canvas.Clear()
	Render3D(s.Canvas, s.wireframe(t), s.Camera)

	s.Trail.Fade()
	pw, ph := s.Canvas.PixelSize()
	m := s.Camera.Transform()
	for _, p := range f.Particles {
		x, y, _, scale, ok := s.Camera.project(m, p.Position, pw, ph)
		if !ok {
			continue
		}
		hex := p.Color.Hex()
		if t.Mono {
			hex = string(t.Value)
		}
		s.Trail.StampDisc(x, y, p.Radius*scale, hex)
	}
	s.Trail.Draw(s.Canvas)
}

func (s *Scene) Reset() {
	s.Trail.Reset()
	s.Canvas.Clear()
}
