package cannon

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/ballistics/internal/core/events/bus"
	"github.com/zeusync/ballistics/internal/core/observability/log"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// Config holds everything a rig needs that does not change at runtime.
type Config struct {
	Mount      Mount
	Initial    State
	MaxTime    float64
	Resolution int
}

// Validate checks the prediction settings through the same rules the
// predictor enforces, so a bad rig fails at construction.
func (c Config) Validate() error {
	req := physics.Request{
		Start:        c.Mount.Pivot,
		Velocity:     c.Mount.Launch.Velocity,
		Acceleration: c.Initial.Gravity,
		MaxTime:      c.MaxTime,
		Resolution:   c.Resolution,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !c.Mount.MuzzleOffset.IsFinite() || !finiteAim(c.Initial.Aim) {
		return fmt.Errorf("%w: muzzle offset and aim must be finite", ErrInvalidConfig)
	}
	if c.Mount.Launch.UseForwardDirection && !physics.V3(c.Mount.Launch.Force, 0, 0).IsFinite() {
		return fmt.Errorf("%w: launch force must be finite", ErrInvalidConfig)
	}
	return nil
}

// Rig applies commands to a State and turns their effects into spawns,
// predictions and bus events. It is meant to be driven from one goroutine.
type Rig struct {
	config    Config
	state     State
	predictor *physics.Predictor
	spawner   Spawner
	events    bus.EventBus
	logger    log.Log
}

func NewRig(config Config, predictor *physics.Predictor, spawner Spawner, events bus.EventBus, logger log.Log) (*Rig, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if predictor == nil {
		return nil, fmt.Errorf("%w: predictor is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Rig{
		config:    config,
		state:     config.Initial,
		predictor: predictor,
		spawner:   spawner,
		events:    events,
		logger:    logger.Named("rig"),
	}, nil
}

func (r *Rig) State() State { return r.state }

func (r *Rig) Config() Config { return r.config }

// Muzzle returns the current muzzle position and barrel frame.
func (r *Rig) Muzzle() (physics.Vec3, Basis) {
	return r.config.Mount.Muzzle(r.state.Aim)
}

// Request builds the prediction request for the current aim and gravity.
func (r *Rig) Request() physics.Request {
	pos, basis := r.Muzzle()
	return physics.Request{
		Start:        pos,
		Velocity:     r.config.Mount.Launch.VelocityFor(basis),
		Acceleration: r.state.Gravity,
		MaxTime:      r.config.MaxTime,
		Resolution:   r.config.Resolution,
	}
}

// Apply runs one command. The state only changes when the command is valid;
// a Fire whose spawn fails leaves the state untouched as well.
func (r *Rig) Apply(cmd Command) error {
	next, shot, err := r.state.Apply(r.config.Mount, cmd)
	if err != nil {
		r.logger.Warn("command rejected", log.Error(err))
		return err
	}

	var data any = cmd
	eventType := ""
	switch cmd.(type) {
	case SetAim, *SetAim:
		eventType = EventAimed
		r.logger.Debug("aim changed", log.Float64("pitch", next.Aim.Pitch), log.Float64("swivel", next.Aim.Swivel))
	case SetGravity, *SetGravity:
		eventType = EventGravityChanged
		r.logger.Info("gravity changed", log.Vector("gravity", next.Gravity.X, next.Gravity.Y, next.Gravity.Z))
	}

	if shot != nil {
		req, err := r.spawn(*shot, next.Gravity)
		if err != nil {
			return err
		}
		eventType, data = EventFired, req
	}

	r.state = next
	return r.publish(eventType, data)
}

// ApplyAll runs commands in order and stops at the first failure.
func (r *Rig) ApplyAll(cmds ...Command) error {
	for i, cmd := range cmds {
		if err := r.Apply(cmd); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, commandName(cmd), err)
		}
	}
	return nil
}

// Predict runs the predictor for the current state and publishes the outcome.
func (r *Rig) Predict() (physics.Path, error) {
	path, err := r.predictor.Predict(r.Request())
	if err != nil {
		return path, errors.Join(err, r.publish(EventTrajectoryRejected, err))
	}
	return path, r.publish(EventTrajectoryPredicted, path)
}

func (r *Rig) spawn(shot Shot, gravity physics.Vec3) (SpawnRequest, error) {
	req := SpawnRequest{
		ID:       uuid.New(),
		Position: shot.Position,
		Forward:  shot.Forward,
		Velocity: shot.Velocity,
		Gravity:  gravity,
	}
	if r.spawner == nil {
		return req, fmt.Errorf("%w: no spawner configured", ErrSpawnFailed)
	}
	if err := r.spawner.Spawn(req); err != nil {
		r.logger.Error("spawn failed", log.String("round", req.ID.String()), log.Error(err))
		return req, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}
	r.logger.Info("round fired",
		log.String("round", req.ID.String()),
		log.Vector("position", req.Position.X, req.Position.Y, req.Position.Z),
		log.Vector("velocity", req.Velocity.X, req.Velocity.Y, req.Velocity.Z),
	)
	return req, nil
}

func (r *Rig) publish(eventType string, data any) error {
	if r.events == nil || eventType == "" {
		return nil
	}
	return r.events.Publish(bus.NewEvent(eventType, eventSource, data, nil))
}

func commandName(cmd Command) string {
	switch c := cmd.(type) {
	case nil:
		return "nil"
	case *SetAim:
		if c == nil {
			return "nil"
		}
	case *SetGravity:
		if c == nil {
			return "nil"
		}
	case *Fire:
		if c == nil {
			return "nil"
		}
	}
	return cmd.Name()
}
