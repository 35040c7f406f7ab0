package injector

import (
	"fmt"
	"io"
	"os"

	"github.com/zeusync/ballistics/internal/config"
	"github.com/zeusync/ballistics/internal/core/events/bus"
	"github.com/zeusync/ballistics/internal/core/observability/log"
	"github.com/zeusync/ballistics/internal/core/systems"
	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
	"github.com/zeusync/ballistics/internal/core/systems/render"
)

// Output routes rendered frames and log lines.
type Output struct {
	Frames io.Writer
	Logs   io.Writer
}

// App is the fully wired rig with its collaborators.
type App struct {
	Config     config.Config
	Logger     *log.Logger
	Events     bus.EventBus
	Scene      *physics.Scene
	Armory     *cannon.Armory
	Rig        *cannon.Rig
	Renderer   *render.LineRenderer
	Prediction *systems.PredictionSystem
	Loop       *systems.Loop
}

func ProvideLogger(cfg config.Config, out Output) *log.Logger {
	w := out.Logs
	if w == nil {
		w = os.Stderr
	}
	return cfg.Logger(w)
}

// ProvideEvents builds the bus with a logging observer, which also turns on
// the bus delivery counters.
func ProvideEvents(logger log.Log) bus.EventBus {
	events := bus.New()
	events.AddObserver(bus.NewLogObserver(logger))
	return events
}

func ProvideScene(cfg config.Config, logger log.Log) (*physics.Scene, error) {
	scene, err := cfg.BuildScene()
	if err != nil {
		return nil, err
	}
	for _, obj := range scene.Objects() {
		logger.Debug("scene object", log.String("name", obj.Name), log.String("collider", fmt.Sprintf("%T", obj.Collider)))
	}
	return scene, nil
}

func ProvideRig(cfg config.Config, predictor *physics.Predictor, spawner cannon.Spawner, events bus.EventBus, logger log.Log) (*cannon.Rig, error) {
	return cannon.NewRig(cfg.Cannon(), predictor, spawner, events, logger)
}

// ProvideRenderer attaches a JSON line renderer to the bus.
func ProvideRenderer(out Output, events bus.EventBus, logger log.Log) (*render.LineRenderer, error) {
	w := out.Frames
	if w == nil {
		w = os.Stdout
	}
	r := render.NewLineRenderer(render.NewJSONSink(w), logger)
	if _, err := r.Attach(events); err != nil {
		return nil, err
	}
	return r, nil
}

func ProvideLoop(cfg config.Config, rig *cannon.Rig, prediction *systems.PredictionSystem, logger log.Log) (*systems.Loop, error) {
	schedule, err := cfg.Schedule()
	if err != nil {
		return nil, err
	}
	loop, err := systems.NewLoop(cfg.Timeline.FixedDelta, logger)
	if err != nil {
		return nil, err
	}
	if err := loop.Register(systems.NewCommandSystem(rig, schedule)); err != nil {
		return nil, err
	}
	if err := loop.Register(prediction); err != nil {
		return nil, err
	}
	return loop, nil
}
