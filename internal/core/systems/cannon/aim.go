package cannon

import (
	"math"

	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// Aim holds the two rig rotations in degrees. Swivel turns the base around the
// Z axis; Pitch lifts the barrel, which is mounted on the swivel.
type Aim struct {
	Pitch  float64 `yaml:"pitch" json:"pitch"`
	Swivel float64 `yaml:"swivel" json:"swivel"`
}

// Basis is an orthonormal frame in world space.
type Basis struct {
	Forward physics.Vec3 `json:"forward"`
	Up      physics.Vec3 `json:"up"`
	Right   physics.Vec3 `json:"right"`
}

// Identity is the rest frame: forward +Z, up +Y, right +X.
func Identity() Basis {
	return Basis{Forward: physics.Forward(), Up: physics.Up(), Right: physics.V3(1, 0, 0)}
}

// Rotate maps a vector from barrel space into world space.
func (a Aim) Rotate(v physics.Vec3) physics.Vec3 {
	return v.RotateX(-radians(a.Pitch)).RotateZ(radians(a.Swivel))
}

// Orientation returns the barrel frame for the given aim.
func Orientation(a Aim) Basis {
	rest := Identity()
	return Basis{
		Forward: a.Rotate(rest.Forward),
		Up:      a.Rotate(rest.Up),
		Right:   a.Rotate(rest.Right),
	}
}

// LookRotation builds a frame whose forward axis is dir. up is used as a hint
// and replaced when it is parallel to dir.
func LookRotation(dir, up physics.Vec3) Basis {
	f := dir.Normalize()
	if f.LengthSquared() == 0 {
		return Identity()
	}
	if math.Abs(f.Dot(up.Normalize())) > 1-1e-9 {
		up = physics.Forward()
		if math.Abs(f.Dot(up)) > 1-1e-9 {
			up = physics.V3(1, 0, 0)
		}
	}
	r := up.Cross(f).Normalize()
	return Basis{Forward: f, Up: f.Cross(r), Right: r}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
