package systems

import (
	"context"
	"time"
)

// System is one step of the simulation tick.
type System interface {
	Name() string
	Phase() ExecutionPhase
	Tick(ctx context.Context, tick Tick) error
}

// ExecutionPhase defines when a system runs within a tick.
type ExecutionPhase uint8

const (
	// PhaseFixedUpdate runs rig commands, mirroring the physics step.
	PhaseFixedUpdate ExecutionPhase = iota
	// PhaseUpdate runs prediction and anything that reads the settled state.
	PhaseUpdate
	// PhaseLateUpdate runs after everything else, e.g. reporting.
	PhaseLateUpdate
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhaseFixedUpdate:
		return "fixed_update"
	case PhaseUpdate:
		return "update"
	case PhaseLateUpdate:
		return "late_update"
	default:
		return "unknown"
	}
}

// Tick identifies one simulation step.
type Tick struct {
	Index     int
	DeltaTime float64
	Elapsed   float64
}

// Metrics provides runtime counters for a loop run.
type Metrics struct {
	Ticks          int
	SystemRuns     uint64
	ErrorCount     uint64
	TotalRunTime   time.Duration
	MaxTickRunTime time.Duration
}
