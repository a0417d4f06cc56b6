package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cylsim/internal/geometry"
)

// Camera projects world coordinates onto the canvas. Extent is the world
// radius that fills the shorter side of the screen at zoom 1.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Extent     float64
	// Distance of the eye from the origin, in multiples of Extent.
	Distance float64
	Near     float64
}

func NewCamera(extent float64) *Camera {
	return &Camera{Zoom: 1, Extent: extent, Distance: 4, Near: 1}
}

// Motion is the scripted camera path: a slow spin about Y, half as fast
// about X, and a sinusoidal zoom.
type Motion struct {
	RotationSpeed float64
	ZoomAmplitude float64
	ZoomSpeed     float64
	BaseZoom      float64
}

func (m Motion) Apply(c *Camera, tick int) {
	t := float64(tick)
	c.RotY = t * m.RotationSpeed
	c.RotX = t * m.RotationSpeed * 0.5
	c.Zoom = m.BaseZoom + m.ZoomAmplitude*math.Sin(t*m.ZoomSpeed)
}

// Transform is scale, then rotate about Y, then about X, applied to a point
// in that order from the left.
func (c *Camera) Transform() mgl64.Mat4 {
	return mgl64.Scale3D(c.Zoom, c.Zoom, c.Zoom).
		Mul4(mgl64.HomogRotate3DY(c.RotY)).
		Mul4(mgl64.HomogRotate3DX(c.RotX))
}

// Project converts world coordinates to sub-pixel screen coordinates.
// Returns x, y, depth, the pixels per world unit at that depth, and
// visibility.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, float64, bool) {
	return c.project(c.Transform(), p, sw, sh)
}

func (c *Camera) project(m mgl64.Mat4, p mgl64.Vec3, sw, sh int) (int, int, float64, float64, bool) {
	q := m.Mul4x1(p.Vec4(1)).Vec3()
	dist := c.Distance * c.Extent
	if q.Z() >= dist-c.Near {
		return 0, 0, 0, 0, false
	}
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	scale := dist / (dist - q.Z()) * (minDim / 2) / c.Extent
	sx := int(math.Round(q.X()*scale)) + sw/2
	sy := int(math.Round(-q.Y()*scale)) + sh/2
	return sx, sy, q.Z(), scale, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
	Color      string
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3, c string) { w.Edges = append(w.Edges, Edge{s, e, c}) }
func (w *Wireframe) Merge(o *Wireframe)                { w.Edges = append(w.Edges, o.Edges...) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	color          string
}

// Render3D draws the wireframe to the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.PixelSize()
	m := cam.Transform()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, _, v1 := cam.project(m, e.Start, sw, sh)
		x2, y2, d2, _, v2 := cam.project(m, e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.color)
	}
}

// CylinderWireframe outlines both caps and a ring of vertical struts.
func CylinderWireframe(g geometry.Containment, segments, struts int, color string) *Wireframe {
	w := NewWireframe()
	r, h := g.CylinderRadius, g.HalfHeight()
	point := func(i int, y float64) mgl64.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return mgl64.Vec3{r * math.Cos(a), y, r * math.Sin(a)}
	}
	for i := 0; i < segments; i++ {
		w.AddEdge(point(i, h), point(i+1, h), color)
		w.AddEdge(point(i, -h), point(i+1, -h), color)
	}
	if struts > 0 {
		step := segments / struts
		if step < 1 {
			step = 1
		}
		for i := 0; i < segments; i += step {
			w.AddEdge(point(i, h), point(i, -h), color)
		}
	}
	return w
}

// SphereWireframe draws latitude rings and meridians.
func SphereWireframe(radius float64, rings, meridians, segments int, color string) *Wireframe {
	w := NewWireframe()
	at := func(lat, lon float64) mgl64.Vec3 {
		return mgl64.Vec3{
			radius * math.Cos(lat) * math.Cos(lon),
			radius * math.Sin(lat),
			radius * math.Cos(lat) * math.Sin(lon),
		}
	}
	for i := 1; i <= rings; i++ {
		lat := -math.Pi/2 + math.Pi*float64(i)/float64(rings+1)
		for j := 0; j < segments; j++ {
			a0 := 2 * math.Pi * float64(j) / float64(segments)
			a1 := 2 * math.Pi * float64(j+1) / float64(segments)
			w.AddEdge(at(lat, a0), at(lat, a1), color)
		}
	}
	for i := 0; i < meridians; i++ {
		lon := math.Pi * float64(i) / float64(meridians)
		for j := 0; j < segments; j++ {
			a0 := 2 * math.Pi * float64(j) / float64(segments)
			a1 := 2 * math.Pi * float64(j+1) / float64(segments)
			w.AddEdge(at(a0, lon), at(a1, lon), color)
		}
	}
	return w
}
