package gui

import (
	"fmt"
	"log"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/cylsim/internal/config"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
	"github.com/san-kum/cylsim/internal/viz"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 200
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColWire    = rl.NewColor(255, 255, 255, 255)
	ColSphere  = rl.NewColor(90, 90, 90, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColGraph   = rl.NewColor(0, 215, 175, 255)
)

type App struct {
	Sys     *physics.System
	Seed    int64
	Workers int
	Title   string

	// View drives the scripted spin and zoom; raylib orbits the eye to match.
	View   *viz.Camera
	Motion viz.Motion
	Camera rl.Camera3D

	Tick      int
	Hits      physics.Hits
	Telemetry []float64
	Running   bool
	Quit      bool

	TrailAlpha uint8
	TrailTex   rl.RenderTexture2D
}

func initWindow(title string, fps int) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(sys *physics.System, cfg *config.Config, title string) *App {
	c := sys.Containment()
	a := &App{
		Sys:     sys,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		Title:   title,
		View:    viz.NewCamera(c.OuterSphereRadius()),
		Motion: viz.Motion{
			RotationSpeed: cfg.Camera.RotationSpeed,
			ZoomAmplitude: cfg.Camera.ZoomAmplitude,
			ZoomSpeed:     cfg.Camera.ZoomSpeed,
			BaseZoom:      cfg.Camera.BaseZoom,
		},
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, float32(c.OuterSphereRadius()*4)),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			30.0,
			rl.CameraPerspective,
		),
		Telemetry:  make([]float64, 0, maxTelemetry),
		Running:    true,
		TrailAlpha: uint8(cfg.Trail.Alpha),
	}
	a.TrailTex = rl.LoadRenderTexture(screenWidth, screenHeight)
	rl.BeginTextureMode(a.TrailTex)
	rl.ClearBackground(ColBg)
	rl.EndTextureMode()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(sys *physics.System, cfg *config.Config, title string) {
	initWindow("cylsim :: "+title, cfg.FPS)
	defer rl.CloseWindow()
	app := NewApp(sys, cfg, title)
	defer rl.UnloadRenderTexture(app.TrailTex)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyQ):
		a.Quit = true
	}

	if a.Running {
		a.step()
	}
	a.Motion.Apply(a.View, a.Tick)
	a.Camera = orbitCamera(a.Camera, a.View)
}

func (a *App) step() {
	var h physics.Hits
	if a.Workers > 1 {
		h = sim.StepParallel(a.Sys, a.Workers)
	} else {
		h = a.Sys.Step()
	}
	a.Tick++
	a.Hits = a.Hits.Add(h)
	a.Telemetry = append(a.Telemetry, float64(h.Bounces()))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) reset() {
	a.Sys.Respawn(rand.New(rand.NewSource(a.Seed)))
	a.Tick = 0
	a.Hits = physics.Hits{}
	a.Telemetry = a.Telemetry[:0]
	rl.BeginTextureMode(a.TrailTex)
	rl.ClearBackground(ColBg)
	rl.EndTextureMode()
	log.Printf("gui: respawned %d particles from seed %d", a.Sys.Len(), a.Seed)
}

func (a *App) Draw() {
	a.drawTrail()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	// Render textures are stored upside down.
	src := rl.NewRectangle(0, 0, float32(a.TrailTex.Texture.Width), -float32(a.TrailTex.Texture.Height))
	rl.DrawTextureRec(a.TrailTex.Texture, src, rl.NewVector2(0, 0), rl.White)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("cylsim", 30, 30, 24, ColText)
	rl.DrawText(fmt.Sprintf(":: %s", a.Title), 130, 34, 16, ColTextDim)

	status := "RUNNING"
	col := ColText
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	rl.DrawText(status, screenWidth-130, 30, 16, col)

	c := a.Sys.Containment()
	lines := []string{
		fmt.Sprintf("tick      %d", a.Tick),
		fmt.Sprintf("particles %d", a.Sys.Len()),
		fmt.Sprintf("energy    %.3f", a.Sys.KineticEnergy()),
		fmt.Sprintf("side      %d", a.Hits.Reflected),
		fmt.Sprintf("caps      %d", a.Hits.Top+a.Hits.Bottom),
		fmt.Sprintf("sphere R  %.1f", c.OuterSphereRadius()),
	}
	for i, l := range lines {
		rl.DrawText(l, 30, int32(80+i*20), 14, ColText)
	}

	a.DrawTelemetry()
	rl.DrawText("[SPACE] PAUSE  [R] RESPAWN  [Q] QUIT", screenWidth-400, screenHeight-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, screenHeight-40, 14, ColTextDim)
}

// DrawTelemetry plots bounces per tick.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColGraph)
	rl.DrawText(fmt.Sprintf("bounces: %.0f", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}
