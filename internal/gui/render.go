package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/viz"
)

// orbitCamera places the raylib eye so that a fixed camera looking at a
// world rotated and scaled by v sees the same image: the eye and up vector
// are carried through the inverse transform.
func orbitCamera(cam rl.Camera3D, v *viz.Camera) rl.Camera3D {
	inv := v.Transform().Inv()
	eye := inv.Mul4x1(mgl64.Vec4{0, 0, v.Distance * v.Extent, 1}).Vec3()
	up := inv.Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Vec3().Normalize()
	cam.Position = toVector3(eye)
	cam.Up = toVector3(up)
	cam.Target = rl.NewVector3(0, 0, 0)
	return cam
}

func toVector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// drawTrail dims the persistent texture with a translucent black overlay
// and draws the scene on top, leaving fading streaks behind moving
// particles.
func (a *App) drawTrail() {
	rl.BeginTextureMode(a.TrailTex)
	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(0, 0, 0, a.TrailAlpha))
	rl.BeginMode3D(a.Camera)
	drawContainer(a.Sys.Containment())
	drawParticles(a.Sys.View(), a.View)
	rl.EndMode3D()
	rl.EndTextureMode()
}

func drawContainer(c geometry.Containment) {
	rl.DrawSphereWires(rl.NewVector3(0, 0, 0), float32(c.OuterSphereRadius()), 16, 24, ColSphere)
	// DrawCylinderWires takes the base centre and extends upwards.
	base := rl.NewVector3(0, float32(-c.HalfHeight()), 0)
	r := float32(c.CylinderRadius)
	rl.DrawCylinderWires(base, r, r, float32(c.CylinderHeight), 32, ColWire)
}

// drawParticles shades each sphere by depth in view space as a stand-in for
// the point light.
func drawParticles(ps []physics.Particle, v *viz.Camera) {
	m := v.Transform()
	for _, p := range ps {
		z := m.Mul4x1(p.Position.Vec4(1)).Z()
		shade := 0.6 + 0.4*clamp01((z/v.Extent+1)/2)
		col := rl.NewColor(
			uint8(float64(p.Color.R)*shade),
			uint8(float64(p.Color.G)*shade),
			uint8(float64(p.Color.B)*shade),
			255,
		)
		rl.DrawSphere(toVector3(p.Position), float32(p.Radius), col)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
