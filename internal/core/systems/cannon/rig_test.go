package cannon

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ballistics/internal/core/events/bus"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

const tol = 1e-9

func testConfig() Config {
	return Config{
		Mount: Mount{
			Pivot:        physics.V3(0, 1, 0),
			MuzzleOffset: physics.V3(0, 0, 2),
			Launch:       Launch{Velocity: physics.V3(0, 10, 0)},
		},
		Initial:    State{Gravity: physics.V3(0, -9.8, 0)},
		MaxTime:    2,
		Resolution: 4,
	}
}

func newTestRig(t *testing.T, cfg Config, in physics.Intersector) (*Rig, *Armory, *[]bus.Event) {
	t.Helper()
	armory := NewArmory()
	events := bus.New()
	var seen []bus.Event
	_, err := events.Subscribe(bus.Wildcard, func(e bus.Event) error {
		seen = append(seen, e)
		return nil
	})
	require.NoError(t, err)

	rig, err := NewRig(cfg, physics.NewPredictor(in, nil), armory, events, nil)
	require.NoError(t, err)
	return rig, armory, &seen
}

func TestOrientation(t *testing.T) {
	rest := Orientation(Aim{})
	assert.Equal(t, Identity(), rest)

	up := Orientation(Aim{Pitch: 90})
	assert.True(t, up.Forward.ApproxEqual(physics.V3(0, 1, 0), tol), "%v", up.Forward)
	assert.True(t, up.Up.ApproxEqual(physics.V3(0, 0, -1), tol), "%v", up.Up)

	pitched := Orientation(Aim{Pitch: 30, Swivel: 90})
	sin, cos := math.Sincos(radians(30))
	assert.True(t, pitched.Forward.ApproxEqual(physics.V3(-sin, 0, cos), tol), "%v", pitched.Forward)
	assert.InDelta(t, 1, pitched.Forward.Length(), tol)
	assert.InDelta(t, 0, pitched.Forward.Dot(pitched.Up), tol)
}

func TestLookRotation(t *testing.T) {
	b := LookRotation(physics.V3(0, 2, 0), physics.Up())
	assert.True(t, b.Forward.ApproxEqual(physics.Up(), tol))
	assert.InDelta(t, 0, b.Forward.Dot(b.Up), tol)
	assert.InDelta(t, 1, b.Right.Length(), tol)

	assert.Equal(t, Identity(), LookRotation(physics.Vec3{}, physics.Up()))
	assert.True(t, LookRotation(physics.Forward(), physics.Up()).Up.ApproxEqual(physics.Up(), tol))
}

func TestLaunchVelocity(t *testing.T) {
	basis := Orientation(Aim{Pitch: 90})
	fixed := Launch{Velocity: physics.V3(1, 2, 3)}
	assert.Equal(t, physics.V3(1, 2, 3), fixed.VelocityFor(basis))

	forward := Launch{Velocity: physics.V3(1, 2, 3), UseForwardDirection: true, Force: 15}
	assert.True(t, forward.VelocityFor(basis).ApproxEqual(physics.V3(0, 15, 0), tol))
}

func TestStateApplyIsPure(t *testing.T) {
	m := testConfig().Mount
	s := State{Gravity: physics.V3(0, -9.8, 0)}

	next, shot, err := s.Apply(m, SetAim{Aim: Aim{Pitch: 45}})
	require.NoError(t, err)
	assert.Nil(t, shot)
	assert.Equal(t, 45.0, next.Aim.Pitch)
	assert.Zero(t, s.Aim.Pitch)

	_, shot, err = next.Apply(m, Fire{})
	require.NoError(t, err)
	require.NotNil(t, shot)
	assert.Equal(t, physics.V3(0, 10, 0), shot.Velocity)

	_, _, err = s.Apply(m, SetGravity{Gravity: physics.V3(math.NaN(), 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, _, err = s.Apply(m, nil)
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

type bogus struct{}

func (bogus) Name() string { return "bogus" }

func TestRigFireSpawnsOneRoundPerCommand(t *testing.T) {
	rig, armory, seen := newTestRig(t, testConfig(), nil)

	require.NoError(t, rig.ApplyAll(SetAim{Aim: Aim{Pitch: 90}}, Fire{}, Fire{}))

	rounds := armory.Rounds()
	require.Len(t, rounds, 2)
	assert.NotEqual(t, rounds[0].ID, rounds[1].ID)
	assert.True(t, rounds[0].Position.ApproxEqual(physics.V3(0, 3, 0), tol), "%v", rounds[0].Position)
	assert.True(t, rounds[0].Forward.ApproxEqual(physics.Up(), tol))
	assert.Equal(t, physics.V3(0, 10, 0), rounds[0].Velocity)
	assert.Equal(t, physics.V3(0, -9.8, 0), rounds[0].Gravity)

	require.Len(t, *seen, 3)
	assert.Equal(t, EventAimed, (*seen)[0].Type())
	assert.Equal(t, EventFired, (*seen)[1].Type())
	assert.Equal(t, rounds[0], (*seen)[1].Data())
}

func TestRigGravityFeedsPrediction(t *testing.T) {
	rig, _, seen := newTestRig(t, testConfig(), nil)

	require.NoError(t, rig.Apply(SetGravity{Gravity: physics.V3(0, -1, 0)}))
	assert.Equal(t, physics.V3(0, -1, 0), rig.Request().Acceleration)

	path, err := rig.Predict()
	require.NoError(t, err)
	assert.Equal(t, 5, path.Len())
	start, _ := rig.Muzzle()
	assert.Equal(t, start, path.Samples[0].Position)
	assert.True(t, path.Last().Position.ApproxEqual(start.Add(physics.V3(0, 18, 0)), tol))

	types := []string{(*seen)[0].Type(), (*seen)[1].Type()}
	assert.Equal(t, []string{EventGravityChanged, EventTrajectoryPredicted}, types)
}

func TestRigPredictReportsObstruction(t *testing.T) {
	scene := physics.NewScene()
	require.NoError(t, scene.Add("ceiling", physics.Plane{Point: physics.V3(0, 6, 0), Normal: physics.V3(0, -1, 0)}))
	rig, _, _ := newTestRig(t, testConfig(), scene)

	path, err := rig.Predict()
	require.NoError(t, err)
	require.NotNil(t, path.Hit)
	assert.InDelta(t, 6, path.Last().Position.Y, tol)
	assert.Less(t, path.Len(), 5)
}

func TestRigRejectsBadCommandsWithoutChangingState(t *testing.T) {
	rig, armory, seen := newTestRig(t, testConfig(), nil)
	before := rig.State()

	err := rig.Apply(bogus{})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	err = rig.ApplyAll(SetAim{Aim: Aim{Pitch: 10}}, SetAim{Aim: Aim{Pitch: math.Inf(1)}}, Fire{})
	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.Contains(t, err.Error(), "command 1 (aim)")
	assert.Equal(t, 10.0, rig.State().Aim.Pitch)
	assert.Empty(t, armory.Rounds())
	assert.NotEqual(t, before, rig.State())
	assert.Len(t, *seen, 1)
}

func TestRigRejectsTypedNilCommands(t *testing.T) {
	rig, armory, seen := newTestRig(t, testConfig(), nil)
	before := rig.State()

	var aim *SetAim
	var gravity *SetGravity
	for _, cmd := range []Command{aim, gravity} {
		var err error
		assert.NotPanics(t, func() { err = rig.Apply(cmd) })
		assert.ErrorIs(t, err, ErrInvalidCommand)

		assert.NotPanics(t, func() { err = rig.ApplyAll(cmd) })
		assert.ErrorIs(t, err, ErrInvalidCommand)
		assert.Contains(t, err.Error(), "command 0 (nil)")
	}

	_, _, err := State{}.Apply(Mount{}, aim)
	assert.ErrorIs(t, err, ErrInvalidCommand)

	assert.Equal(t, before, rig.State())
	assert.Empty(t, armory.Rounds())
	assert.Empty(t, *seen)

	// pointer commands still work when set
	require.NoError(t, rig.Apply(&SetGravity{Gravity: physics.V3(0, -1, 0)}))
	assert.Equal(t, physics.V3(0, -1, 0), rig.State().Gravity)
}

func TestRigSpawnFailureKeepsState(t *testing.T) {
	failing := SpawnerFunc(func(SpawnRequest) error { return errors.New("pool exhausted") })
	rig, err := NewRig(testConfig(), physics.NewPredictor(nil, nil), failing, nil, nil)
	require.NoError(t, err)

	err = rig.Apply(Fire{})
	assert.ErrorIs(t, err, ErrSpawnFailed)

	rig, err = NewRig(testConfig(), physics.NewPredictor(nil, nil), nil, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, rig.Apply(Fire{}), ErrSpawnFailed)
}

func TestNewRigValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Resolution = 0
	_, err := NewRig(cfg, physics.NewPredictor(nil, nil), NewArmory(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, physics.ErrInvalidResolution)

	cfg = testConfig()
	cfg.MaxTime = -1
	_, err = NewRig(cfg, physics.NewPredictor(nil, nil), NewArmory(), nil, nil)
	assert.ErrorIs(t, err, physics.ErrInvalidMaxTime)

	_, err = NewRig(testConfig(), nil, NewArmory(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSpawnRequestFlight(t *testing.T) {
	req := SpawnRequest{Position: physics.V3(0, 0, 0), Velocity: physics.V3(0, 10, 0), Gravity: physics.V3(0, -9.8, 0)}
	assert.True(t, req.PositionAt(1).ApproxEqual(physics.V3(0, 5.1, 0), tol))
}
