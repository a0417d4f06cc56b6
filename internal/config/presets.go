package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"dense": func(c *Config) {
		c.Particles = 400
		c.Geometry.ParticleRadius = 2
	},
	"tall": func(c *Config) {
		c.Geometry.CylinderRadius = 80
		c.Geometry.CylinderHeight = 600
	},
	"flat": func(c *Config) {
		c.Geometry.CylinderRadius = 300
		c.Geometry.CylinderHeight = 60
		c.Camera.RotationSpeed = 0.002
	},
	"fast": func(c *Config) {
		c.Sampling.SpeedMin = 6
		c.Sampling.SpeedMax = 12
		c.Trail.Alpha = 60
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil if
// there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
