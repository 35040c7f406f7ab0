package cannon

import (
	"fmt"

	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// Command is a one-shot instruction for the rig. Commands are values; applying
// one never leaves a flag behind for the next tick.
type Command interface {
	Name() string
}

// SetAim replaces both rig rotations.
type SetAim struct {
	Aim Aim
}

// Fire launches exactly one round.
type Fire struct{}

// SetGravity replaces the acceleration used by predictions and launched rounds.
type SetGravity struct {
	Gravity physics.Vec3
}

func (SetAim) Name() string     { return "aim" }
func (Fire) Name() string       { return "fire" }
func (SetGravity) Name() string { return "gravity" }

// Launch describes how fast rounds leave the muzzle.
type Launch struct {
	// Velocity is used as-is unless UseForwardDirection is set.
	Velocity physics.Vec3
	// UseForwardDirection launches along the barrel with speed Force.
	UseForwardDirection bool
	Force               float64
}

// VelocityFor resolves the launch velocity for a barrel frame.
func (l Launch) VelocityFor(b Basis) physics.Vec3 {
	if l.UseForwardDirection {
		return b.Forward.Scale(l.Force)
	}
	return l.Velocity
}

// Shot is what a Fire command produces before it is handed to a Spawner.
type Shot struct {
	Position physics.Vec3
	Forward  physics.Vec3
	Velocity physics.Vec3
}

// State is the complete mutable state of a rig. It is a value: Apply returns a
// new State and never modifies the receiver.
type State struct {
	Aim     Aim
	Gravity physics.Vec3
}

// Mount fixes where the barrel sits and how rounds are launched.
type Mount struct {
	Pivot        physics.Vec3
	MuzzleOffset physics.Vec3
	Launch       Launch
}

// Muzzle returns the muzzle position and barrel frame for the given aim.
func (m Mount) Muzzle(a Aim) (physics.Vec3, Basis) {
	return m.Pivot.Add(a.Rotate(m.MuzzleOffset)), Orientation(a)
}

// Apply evaluates cmd against s. Fire yields a Shot; the other commands yield
// nil.
func (s State) Apply(m Mount, cmd Command) (State, *Shot, error) {
	switch c := cmd.(type) {
	case SetAim:
		if !finiteAim(c.Aim) {
			return s, nil, fmt.Errorf("%w: aim %+v", ErrInvalidCommand, c.Aim)
		}
		s.Aim = c.Aim
		return s, nil, nil
	case *SetAim:
		if c == nil {
			return s, nil, fmt.Errorf("%w: nil %T", ErrInvalidCommand, cmd)
		}
		return s.Apply(m, *c)
	case SetGravity:
		if !c.Gravity.IsFinite() {
			return s, nil, fmt.Errorf("%w: gravity %v", ErrInvalidCommand, c.Gravity)
		}
		s.Gravity = c.Gravity
		return s, nil, nil
	case *SetGravity:
		if c == nil {
			return s, nil, fmt.Errorf("%w: nil %T", ErrInvalidCommand, cmd)
		}
		return s.Apply(m, *c)
	case Fire, *Fire:
		pos, basis := m.Muzzle(s.Aim)
		return s, &Shot{
			Position: pos,
			Forward:  basis.Forward,
			Velocity: m.Launch.VelocityFor(basis),
		}, nil
	case nil:
		return s, nil, fmt.Errorf("%w: nil command", ErrInvalidCommand)
	default:
		return s, nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func finiteAim(a Aim) bool {
	return physics.V3(a.Pitch, a.Swivel, 0).IsFinite()
}
