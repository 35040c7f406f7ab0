package cannon

// Event types published by a Rig.
const (
	EventAimed               = "cannon.aimed"
	EventFired               = "cannon.fired"
	EventGravityChanged      = "gravity.changed"
	EventTrajectoryPredicted = "trajectory.predicted"
	EventTrajectoryRejected  = "trajectory.rejected"
)

const eventSource = "cannon"
