//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/ballistics/internal/config"
	"github.com/zeusync/ballistics/internal/core/observability/log"
	"github.com/zeusync/ballistics/internal/core/systems"
	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

func InitializeApp(cfg config.Config, out Output) (*App, error) {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		ProvideEvents,
		ProvideScene,
		wire.Bind(new(physics.Intersector), new(*physics.Scene)),
		physics.NewPredictor,
		cannon.NewArmory,
		wire.Bind(new(cannon.Spawner), new(*cannon.Armory)),
		ProvideRig,
		ProvideRenderer,
		systems.NewPredictionSystem,
		ProvideLoop,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
