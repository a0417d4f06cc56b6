package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
	"github.com/san-kum/cylsim/internal/viz"
)

const (
	background   = "#000000"
	defaultColor = "#00ff00"
)

func svgHeader(sb *strings.Builder, w, h float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background))
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// its cell colour.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	var sb strings.Builder
	svgHeader(&sb, float64(pw)*scale, float64(ph)*scale)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			fill := canvas.Colors[y/4][x/2]
			if fill == "" {
				fill = defaultColor
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FrameToSVG projects a frame directly to vector output: the cylinder and
// outer sphere as outlines and each particle as a filled circle sized by
// perspective. Far particles are drawn first.
func FrameToSVG(frame physics.Frame, c geometry.Containment, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))

	wire := viz.SphereWireframe(c.OuterSphereRadius(), 5, 6, 48, "#444444")
	wire.Merge(viz.CylinderWireframe(c, 48, 8, "#aaaaaa"))
	sb.WriteString(`<g fill="none" stroke-width="1">` + "\n")
	for _, e := range wire.Edges {
		x1, y1, _, _, v1 := cam.Project(e.Start, width, height)
		x2, y2, _, _, v2 := cam.Project(e.End, width, height)
		if !v1 && !v2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>
`, x1, y1, x2, y2, e.Color))
	}
	sb.WriteString("</g>\n")

	type disc struct {
		x, y int
		r, z float64
		fill string
	}
	discs := make([]disc, 0, len(frame.Particles))
	for _, p := range frame.Particles {
		x, y, z, scale, ok := cam.Project(p.Position, width, height)
		if !ok {
			continue
		}
		discs = append(discs, disc{x, y, p.Radius * scale, z, p.Color.Hex()})
	}
	sort.Slice(discs, func(i, j int) bool { return discs[i].z < discs[j].z })

	sb.WriteString("<g>\n")
	for _, d := range discs {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.2f" fill="%s"/>
`, d.x, d.y, d.r, d.fill))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG plots bounces per tick as a polyline.
func TraceToSVG(trace []sim.TickStats, width, height int, strokeColor string) string {
	if len(trace) < 2 {
		return ""
	}

	minX, maxX := float64(trace[0].Tick), float64(trace[len(trace)-1].Tick)
	minY, maxY := float64(trace[0].Bounces), float64(trace[0].Bounces)
	for _, st := range trace {
		y := float64(st.Bounces)
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, st := range trace {
		x := (float64(st.Tick) - minX) / rangeX * float64(width)
		y := float64(height) - (float64(st.Bounces)-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
