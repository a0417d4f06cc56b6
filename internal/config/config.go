package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
)

const (
	DefaultParticles     = 25
	DefaultTicks         = 600
	DefaultFPS           = 60
	DefaultRotationSpeed = 0.005
	DefaultZoomAmplitude = 0.3
	DefaultZoomSpeed     = 0.005
	DefaultBaseZoom      = 1.0
	DefaultTrailAlpha    = 20
)

type Config struct {
	Particles int            `yaml:"particles"`
	Seed      int64          `yaml:"seed"`
	Ticks     int            `yaml:"ticks"`
	FPS       int            `yaml:"fps"`
	Workers   int            `yaml:"workers"`
	Geometry  GeometryConfig `yaml:"geometry"`
	Sampling  SamplingConfig `yaml:"sampling"`
	Camera    CameraConfig   `yaml:"camera"`
	Trail     TrailConfig    `yaml:"trail"`
}

type GeometryConfig struct {
	CylinderRadius float64 `yaml:"cylinder_radius"`
	CylinderHeight float64 `yaml:"cylinder_height"`
	ParticleRadius float64 `yaml:"particle_radius"`
	Margin         float64 `yaml:"margin"`
}

type SamplingConfig struct {
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`
	ColorMin int     `yaml:"color_min"`
	ColorMax int     `yaml:"color_max"`
}

// CameraConfig drives presentation only; the physics never reads it.
type CameraConfig struct {
	RotationSpeed float64 `yaml:"rotation_speed"`
	ZoomAmplitude float64 `yaml:"zoom_amplitude"`
	ZoomSpeed     float64 `yaml:"zoom_speed"`
	BaseZoom      float64 `yaml:"base_zoom"`
}

type TrailConfig struct {
	// Alpha of the black overlay drawn each frame, 0-255. 0 disables fading
	// entirely, 255 clears every frame.
	Alpha int `yaml:"alpha"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Ticks:     DefaultTicks,
		FPS:       DefaultFPS,
		Workers:   1,
		Geometry: GeometryConfig{
			CylinderRadius: geometry.DefaultCylinderRadius,
			CylinderHeight: geometry.DefaultCylinderHeight,
			ParticleRadius: geometry.DefaultParticleRadius,
			Margin:         geometry.DefaultMargin,
		},
		Sampling: SamplingConfig{
			SpeedMin: physics.DefaultSpeedMin,
			SpeedMax: physics.DefaultSpeedMax,
			ColorMin: physics.DefaultColorMin,
			ColorMax: physics.DefaultColorMax,
		},
		Camera: CameraConfig{
			RotationSpeed: DefaultRotationSpeed,
			ZoomAmplitude: DefaultZoomAmplitude,
			ZoomSpeed:     DefaultZoomSpeed,
			BaseZoom:      DefaultBaseZoom,
		},
		Trail: TrailConfig{Alpha: DefaultTrailAlpha},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate catches configuration errors at startup so the per-tick update
// never has to.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", geometry.ErrParameterBounds, c.Particles)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", geometry.ErrParameterBounds, c.Ticks)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", geometry.ErrParameterBounds, c.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", geometry.ErrParameterBounds, c.Workers)
	}
	if lo, hi := c.Sampling.ColorMin, c.Sampling.ColorMax; lo < 0 || lo > 255 || hi < 0 || hi > 255 {
		return fmt.Errorf("%w: color range [%d, %d] must lie within [0, 255]", geometry.ErrParameterBounds, lo, hi)
	}
	if c.Sampling.ColorMin > c.Sampling.ColorMax {
		return fmt.Errorf("%w: color_min %d exceeds color_max %d",
			geometry.ErrParameterBounds, c.Sampling.ColorMin, c.Sampling.ColorMax)
	}
	if c.Trail.Alpha < 0 || c.Trail.Alpha > 255 {
		return fmt.Errorf("%w: trail alpha must lie within [0, 255], got %d", geometry.ErrParameterBounds, c.Trail.Alpha)
	}
	if err := c.Containment().Validate(); err != nil {
		return err
	}
	return c.Sampler().Validate()
}

func (c *Config) Containment() geometry.Containment {
	return geometry.Containment{
		CylinderRadius: c.Geometry.CylinderRadius,
		CylinderHeight: c.Geometry.CylinderHeight,
		ParticleRadius: c.Geometry.ParticleRadius,
		Margin:         c.Geometry.Margin,
	}
}

// Sampler assumes Validate has accepted the colour range.
func (c *Config) Sampler() physics.Sampler {
	return physics.Sampler{
		SpeedMin: c.Sampling.SpeedMin,
		SpeedMax: c.Sampling.SpeedMax,
		ColorMin: uint8(c.Sampling.ColorMin),
		ColorMax: uint8(c.Sampling.ColorMax),
	}
}

func (c *Config) RunConfig() sim.Config {
	rc := sim.DefaultConfig()
	rc.Ticks = c.Ticks
	rc.Seed = c.Seed
	rc.Workers = c.Workers
	return rc
}
