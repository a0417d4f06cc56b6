package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
)

type Simulator struct {
	sys       *physics.System
	metrics   []Metric
	observers []Observer
	frames    *FramePool
}

func New(sys *physics.System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		frames:    NewFramePool(sys.Len()),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() *physics.System { return s.sys }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]physics.Frame, 0),
		Trace:   make([]TickStats, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.RecordEvery > 0 {
		result.Frames = append(result.Frames, s.sys.FrameInto(0, s.frames.Get()))
	}

	for tick := 1; tick <= cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		hits := s.step(cfg.Workers)
		result.Hits = result.Hits.Add(hits)
		result.StepsTaken++

		ps := s.sys.View()
		for _, m := range s.metrics {
			m.Observe(ps, hits, tick)
		}
		for _, obs := range s.observers {
			obs.OnTick(ps, hits, tick)
		}

		result.Trace = append(result.Trace, traceTick(ps, hits, tick))

		if cfg.RecordEvery > 0 && tick%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, s.sys.FrameInto(tick, s.frames.Get()))
		}

		if cfg.ValidateContainment {
			if err := checkContainment(s.sys.Containment(), ps, tick, cfg.Tolerance); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
		if r, ok := m.(Reporter); ok {
			for k, v := range r.Report() {
				result.Metrics[k] = v
			}
		}
	}

	return result, nil
}

// RunWithCallback steps the system and hands every frame to fn until fn
// returns false, ctx is done, or cfg.Ticks is reached (0 means unbounded).
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(physics.Frame, physics.Hits) bool) error {
	if cfg.Ticks < 0 || cfg.Workers < 0 {
		return fmt.Errorf("%w: ticks=%d workers=%d", ErrInvalidConfig, cfg.Ticks, cfg.Workers)
	}

	buf := s.frames.Get()
	defer s.frames.Put(buf)

	for tick := 1; cfg.Ticks == 0 || tick <= cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		hits := s.step(cfg.Workers)
		ps := s.sys.View()
		for _, m := range s.metrics {
			m.Observe(ps, hits, tick)
		}
		for _, obs := range s.observers {
			obs.OnTick(ps, hits, tick)
		}

		if cfg.ValidateContainment {
			if err := checkContainment(s.sys.Containment(), ps, tick, cfg.Tolerance); err != nil {
				return err
			}
		}

		if !fn(s.sys.FrameInto(tick, buf), hits) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) step(workers int) physics.Hits {
	if workers <= 1 {
		return s.sys.Step()
	}
	return StepParallel(s.sys, workers)
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, cfg.Workers)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record interval must not be negative, got %d", ErrInvalidConfig, cfg.RecordEvery)
	}
	if cfg.ValidateContainment && cfg.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", ErrInvalidConfig)
	}
	return nil
}

func traceTick(ps []physics.Particle, hits physics.Hits, tick int) TickStats {
	st := TickStats{Tick: tick, Bounces: hits.Bounces(), KineticEnergy: physics.KineticEnergy(ps)}
	if len(ps) == 0 {
		return st
	}
	for _, p := range ps {
		st.MeanRadius += geometry.HorizontalDistance(p.Position)
	}
	st.MeanRadius /= float64(len(ps))
	return st
}

func checkContainment(c geometry.Containment, ps []physics.Particle, tick int, tol float64) error {
	for i, p := range ps {
		if ex := c.Excess(p.Position); ex > tol {
			return SimError{
				Tick:     tick,
				Particle: i,
				Message:  fmt.Sprintf("outside containment by %g", ex),
				Wrapped:  ErrContainment,
			}
		}
	}
	return nil
}
