package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultOuterSphereRadius(t *testing.T) {
	c := Default()

	expected := math.Sqrt(200*200+200*200) + 20
	if got := c.OuterSphereRadius(); math.Abs(got-expected) > 1e-9 {
		t.Errorf("OuterSphereRadius() = %v, want %v", got, expected)
	}
	if c.InnerRadius() != 195 {
		t.Errorf("InnerRadius() = %v, want 195", c.InnerRadius())
	}
	if c.InnerHalfHeight() != 195 {
		t.Errorf("InnerHalfHeight() = %v, want 195", c.InnerHalfHeight())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Containment)
		valid bool
	}{
		{"default", func(c *Containment) {}, true},
		{"zero radius", func(c *Containment) { c.CylinderRadius = 0 }, false},
		{"negative height", func(c *Containment) { c.CylinderHeight = -1 }, false},
		{"zero particle", func(c *Containment) { c.ParticleRadius = 0 }, false},
		{"particle wider than cylinder", func(c *Containment) { c.ParticleRadius = 200 }, false},
		{"particle taller than half height", func(c *Containment) { c.CylinderHeight = 10 }, false},
		{"negative margin", func(c *Containment) { c.Margin = -1 }, false},
		{"no margin", func(c *Containment) { c.Margin = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(&c)
			err := c.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrParameterBounds) {
					t.Errorf("expected ErrParameterBounds, got %v", err)
				}
			}
		})
	}
}

func TestExcess(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		p    mgl64.Vec3
		want float64
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, 0},
		{"on wall", mgl64.Vec3{195, 0, 0}, 0},
		{"past wall", mgl64.Vec3{0, 0, -200}, 5},
		{"past top", mgl64.Vec3{0, 197, 0}, 2},
		{"past bottom", mgl64.Vec3{0, -196, 0}, 1},
		{"corner takes larger", mgl64.Vec3{198, 196, 0}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Excess(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Excess(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if !c.Contains(mgl64.Vec3{195 + 1e-10, 0, 0}, 1e-9) {
		t.Error("Contains should accept points within tolerance")
	}
}
