package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrContainment indicates a particle was found outside the cylinder.
	ErrContainment = errors.New("sim: particle escaped containment")
)

// SimError records a problem at a specific tick and particle.
type SimError struct {
	Tick     int
	Particle int
	Message  string
	Wrapped  error
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (particle %d): %s", e.Tick, e.Particle, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
