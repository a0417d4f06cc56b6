package sim

import "github.com/san-kum/cylsim/internal/physics"

type Metric interface {
	Name() string
	Observe(ps []physics.Particle, hits physics.Hits, tick int)
	Value() float64
	Reset()
}

// Reporter is implemented by metrics that publish values beyond Value,
// keyed by name.
type Reporter interface {
	Report() map[string]float64
}

// Observer sees the population after every tick. The slice is only valid
// for the duration of the call.
type Observer interface {
	OnTick(ps []physics.Particle, hits physics.Hits, tick int)
}

type Config struct {
	Ticks int
	Seed  int64
	// Workers > 1 splits each tick across goroutines.
	Workers int
	// RecordEvery keeps a frame every n ticks; 0 records nothing.
	RecordEvery         int
	ValidateContainment bool
	Tolerance           float64
}

func DefaultConfig() Config {
	return Config{
		Ticks:               600,
		Workers:             1,
		RecordEvery:         0,
		ValidateContainment: true,
		Tolerance:           1e-9,
	}
}

// TickStats summarises one tick.
type TickStats struct {
	Tick          int     `json:"tick"`
	Bounces       int     `json:"bounces"`
	KineticEnergy float64 `json:"kinetic_energy"`
	MeanRadius    float64 `json:"mean_radius"`
}

type Result struct {
	Frames     []physics.Frame
	Trace      []TickStats
	Metrics    map[string]float64
	Hits       physics.Hits
	StepsTaken int
	Errors     []error
}
