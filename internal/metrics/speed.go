package metrics

import (
	"github.com/san-kum/cylsim/internal/analysis"
	"github.com/san-kum/cylsim/internal/physics"
)

// Speed keeps the speed distribution of the last observed tick. Reflections
// only change direction, so it should match the spawned distribution.
type Speed struct {
	name string
	last analysis.SpeedStats
}

func NewSpeed() *Speed {
	return &Speed{name: "speed_mean"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(ps []physics.Particle, _ physics.Hits, _ int) {
	s.last = analysis.Speeds(ps)
}

func (s *Speed) Value() float64             { return s.last.Mean }
func (s *Speed) Stats() analysis.SpeedStats { return s.last }
func (s *Speed) Reset()                     { s.last = analysis.SpeedStats{} }

func (s *Speed) Report() map[string]float64 {
	return map[string]float64{
		"speed_stddev": s.last.StdDev,
		"speed_min":    s.last.Min,
		"speed_max":    s.last.Max,
	}
}
