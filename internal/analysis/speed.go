package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cylsim/internal/physics"
)

type SpeedStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func Speeds(ps []physics.Particle) SpeedStats {
	if len(ps) == 0 {
		return SpeedStats{}
	}
	speeds := make([]float64, len(ps))
	for i, p := range ps {
		speeds[i] = p.Speed()
	}
	mean, std := stat.MeanStdDev(speeds, nil)
	return SpeedStats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(speeds),
		Max:    floats.Max(speeds),
	}
}
