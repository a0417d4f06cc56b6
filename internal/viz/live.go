package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cylsim/internal/analysis"
	"github.com/san-kum/cylsim/internal/config"
	"github.com/san-kum/cylsim/internal/metrics"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	gifPath         = "cylsim.gif"
)

type TickMsg time.Time

// Model is the Bubble Tea model for the live terminal view.
type Model struct {
	sys     *physics.System
	seed    int64
	workers int
	fps     int
	title   string

	scene   *Scene
	tick    int
	hits    physics.Hits
	bounces []float64
	caps    []float64
	drift   *metrics.EnergyDrift

	running   bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
}

func NewModel(sys *physics.System, cfg *config.Config, title string) Model {
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	m := Model{
		sys:     sys,
		seed:    cfg.Seed,
		workers: cfg.Workers,
		fps:     fps,
		title:   title,
		scene:   NewScene(width, height, sys.Containment(), cfg.Camera, cfg.Trail.Alpha),
		bounces: make([]float64, 0, historyCapacity),
		caps:    make([]float64, 0, historyCapacity),
		drift:   metrics.NewEnergyDrift(),
		running: true,
	}
	m.drift.Observe(sys.View(), physics.Hits{}, 0)
	return m
}

func (m Model) Init() tea.Cmd { return m.nextTick() }

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
				m.draw()
			}
		case "r":
			m.reset()
		case "t":
			CurrentTheme = NextTheme(CurrentTheme.Name)
		case "+", "=":
			m.scene.ZoomBias *= 1.1
		case "-", "_":
			m.scene.ZoomBias /= 1.1
		case "g":
			if m.recording {
				if err := m.saveGIF(gifPath); err != nil {
					log.Printf("live: save gif: %v", err)
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
			m.draw()
			if m.recording {
				m.captureFrame()
			}
		}
		return m, m.nextTick()
	}
	return m, nil
}

func (m *Model) step() {
	var h physics.Hits
	if m.workers > 1 {
		h = sim.StepParallel(m.sys, m.workers)
	} else {
		h = m.sys.Step()
	}
	m.tick++
	m.hits = m.hits.Add(h)
	m.drift.Observe(m.sys.View(), h, m.tick)

	m.bounces = append(m.bounces, float64(h.Bounces()))
	m.caps = append(m.caps, float64(h.Top+h.Bottom))
	if len(m.bounces) > historyCapacity {
		m.bounces = m.bounces[1:]
		m.caps = m.caps[1:]
	}
}

func (m *Model) draw() {
	m.scene.Draw(physics.Frame{Tick: m.tick, Particles: m.sys.View()}, CurrentTheme)
}

// reset respawns from the configured seed, so the run replays exactly.
func (m *Model) reset() {
	m.sys.Respawn(rand.New(rand.NewSource(m.seed)))
	m.tick = 0
	m.hits = physics.Hits{}
	m.bounces = m.bounces[:0]
	m.caps = m.caps[:0]
	m.drift.Reset()
	m.drift.Observe(m.sys.View(), physics.Hits{}, 0)
	m.scene.Reset()
}

func (m Model) View() string {
	st := stylesFor(CurrentTheme)
	canvasView := st.canvas.Render(m.scene.Canvas.Render())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += st.warn.Render(fmt.Sprintf("  REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	if len(m.bounces) > 1 {
		chart := asciigraph.Plot(m.bounces, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Bounces / tick"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	c := m.sys.Containment()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.tick))
	row("Particles", fmt.Sprintf("%d", m.sys.Len()))
	row("Energy", fmt.Sprintf("%.3f", m.sys.KineticEnergy()))
	row("Drift", fmt.Sprintf("%.2e", m.drift.Value()))
	sp := analysis.Speeds(m.sys.View())
	row("Speed", fmt.Sprintf("%.2f ± %.2f", sp.Mean, sp.StdDev))
	row("Cylinder", fmt.Sprintf("r=%.0f h=%.0f", c.CylinderRadius, c.CylinderHeight))
	row("Sphere", fmt.Sprintf("R=%.1f", c.OuterSphereRadius()))
	row("Zoom", fmt.Sprintf("%.2f", m.scene.Camera.Zoom))

	total := m.hits.Bounces()
	s.WriteString("\nBOUNCES\n")
	row("Side", fmt.Sprintf("%s %d", ShareBar(m.hits.Reflected, total, 12), m.hits.Reflected))
	row("Top", fmt.Sprintf("%s %d", ShareBar(m.hits.Top, total, 12), m.hits.Top))
	row("Bottom", fmt.Sprintf("%s %d", ShareBar(m.hits.Bottom, total, 12), m.hits.Bottom))
	row("Caps", Sparkline(m.caps, 24))
	if grazes := m.hits.Side - m.hits.Reflected; grazes > 0 {
		row("Grazes", fmt.Sprintf("%d", grazes))
	}

	s.WriteString(st.help.Render("\n─────────────────────\nSP:Pause N:Step R:Reset\nT:Theme  G:Record ?:Help\n+/-:Zoom Q:Quit"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step (paused)     ║
║  R        - Respawn from seed        ║
║  + / -    - Zoom in / out            ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// captureFrame rasterises the braille canvas, one 4x4 block per dot.
func (m *Model) captureFrame() {
	const dot = 4
	c := m.scene.Canvas
	pw, ph := c.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, pw*dot, ph*dot), palette.Plan9)
	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.Lit(x, y) {
				continue
			}
			idx := uint8(img.Palette.Index(hexToColor(c.Colors[y/4][x/2])))
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, idx)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	delay := 100 / m.fps
	if delay < 2 {
		delay = 2
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func hexToColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{r, g, b, 255}
}

// Run starts the live view on the alternate screen and blocks until quit.
func Run(sys *physics.System, cfg *config.Config, title string) error {
	if theme := os.Getenv("CYLSIM_THEME"); theme != "" {
		SetTheme(theme)
	}
	_, err := tea.NewProgram(NewModel(sys, cfg, title), tea.WithAltScreen()).Run()
	return err
}
