package cannon

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// SpawnRequest asks the world to create one physical round.
type SpawnRequest struct {
	ID       uuid.UUID    `json:"id"`
	Position physics.Vec3 `json:"position"`
	Forward  physics.Vec3 `json:"forward"`
	Velocity physics.Vec3 `json:"velocity"`
	Gravity  physics.Vec3 `json:"gravity"`
}

// Spawner creates rounds in whatever world hosts the rig.
type Spawner interface {
	Spawn(req SpawnRequest) error
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(req SpawnRequest) error

func (f SpawnerFunc) Spawn(req SpawnRequest) error { return f(req) }

// Armory is an in-memory Spawner that keeps every request it receives.
type Armory struct {
	mu     sync.Mutex
	rounds []SpawnRequest
}

func NewArmory() *Armory {
	return &Armory{}
}

func (a *Armory) Spawn(req SpawnRequest) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rounds = append(a.rounds, req)
	return nil
}

// Rounds returns a copy of the recorded requests in spawn order.
func (a *Armory) Rounds() []SpawnRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]SpawnRequest, len(a.rounds))
	copy(out, a.rounds)
	return out
}

// PositionAt returns where a recorded round is after t seconds of free flight.
func (r SpawnRequest) PositionAt(t float64) physics.Vec3 {
	return physics.PositionAt(r.Position, r.Velocity, r.Gravity, t)
}
