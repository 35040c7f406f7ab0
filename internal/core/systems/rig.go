package systems

import (
	"context"
	"slices"

	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// ScheduledCommand is a command bound to the tick it is applied on.
type ScheduledCommand struct {
	Tick    int
	Command cannon.Command
}

// Schedule is a timeline of rig commands.
type Schedule []ScheduledCommand

// At returns the commands for tick in their declared order.
func (s Schedule) At(tick int) []cannon.Command {
	var out []cannon.Command
	for _, c := range s {
		if c.Tick == tick {
			out = append(out, c.Command)
		}
	}
	return out
}

// Last is the highest tick that has a command, or -1.
func (s Schedule) Last() int {
	if len(s) == 0 {
		return -1
	}
	return slices.MaxFunc(s, func(a, b ScheduledCommand) int { return a.Tick - b.Tick }).Tick
}

// CommandSystem applies scheduled commands to a rig during the fixed update.
type CommandSystem struct {
	rig      *cannon.Rig
	schedule Schedule
}

func NewCommandSystem(rig *cannon.Rig, schedule Schedule) *CommandSystem {
	return &CommandSystem{rig: rig, schedule: schedule}
}

func (s *CommandSystem) Name() string          { return "commands" }
func (s *CommandSystem) Phase() ExecutionPhase { return PhaseFixedUpdate }

func (s *CommandSystem) Tick(_ context.Context, tick Tick) error {
	return s.rig.ApplyAll(s.schedule.At(tick.Index)...)
}

// PredictionSystem recomputes the rig trajectory every tick. The rig publishes
// the result, so renderers attached to the bus pick it up.
type PredictionSystem struct {
	rig  *cannon.Rig
	last physics.Path
}

func NewPredictionSystem(rig *cannon.Rig) *PredictionSystem {
	return &PredictionSystem{rig: rig}
}

func (s *PredictionSystem) Name() string          { return "prediction" }
func (s *PredictionSystem) Phase() ExecutionPhase { return PhaseUpdate }

func (s *PredictionSystem) Tick(_ context.Context, _ Tick) error {
	path, err := s.rig.Predict()
	if err != nil {
		return err
	}
	s.last = path
	return nil
}

// Last returns the most recent successful prediction.
func (s *PredictionSystem) Last() physics.Path { return s.last }
