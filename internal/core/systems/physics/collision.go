package physics

import (
	"fmt"
	"math"
)

const epsilon = 1e-12

var (
	_ Collider    = Plane{}
	_ Collider    = Sphere{}
	_ Collider    = Box{}
	_ Intersector = (*Scene)(nil)
)

// Plane is a one-sided infinite plane. Segments are only stopped when they
// cross from the side Normal points to.
type Plane struct {
	Point  Vec3
	Normal Vec3
}

func (p Plane) Validate() error {
	if !p.Point.IsFinite() || !p.Normal.IsFinite() || p.Normal.LengthSquared() < epsilon {
		return fmt.Errorf("%w: plane needs a finite point and a non-zero normal", ErrInvalidCollider)
	}
	return nil
}

func (p Plane) Intersect(from, to Vec3) (Hit, float64, bool) {
	n := p.Normal.Normalize()
	da := n.Dot(from.Sub(p.Point))
	db := n.Dot(to.Sub(p.Point))
	if da < 0 || db >= 0 {
		return Hit{}, 0, false
	}
	f := da / (da - db)
	return Hit{Point: from.Lerp(to, f), Normal: n}, f, true
}

// Sphere is a solid ball. Segments starting inside it are not stopped.
type Sphere struct {
	Center Vec3
	Radius float64
}

func (s Sphere) Validate() error {
	if !s.Center.IsFinite() || !finite(s.Radius) || s.Radius <= 0 {
		return fmt.Errorf("%w: sphere needs a finite center and a positive radius", ErrInvalidCollider)
	}
	return nil
}

func (s Sphere) Intersect(from, to Vec3) (Hit, float64, bool) {
	d := to.Sub(from)
	m := from.Sub(s.Center)
	a := d.Dot(d)
	c := m.Dot(m) - s.Radius*s.Radius
	if a < epsilon || c < 0 {
		return Hit{}, 0, false
	}
	b := m.Dot(d)
	disc := b*b - a*c
	if disc < 0 {
		return Hit{}, 0, false
	}
	f := (-b - math.Sqrt(disc)) / a
	if f < 0 || f > 1 {
		return Hit{}, 0, false
	}
	point := from.Add(d.Scale(f))
	return Hit{Point: point, Normal: point.Sub(s.Center).Scale(1 / s.Radius)}, f, true
}

// Box is an axis aligned solid box. Segments starting inside it are not
// stopped.
type Box struct {
	Min Vec3
	Max Vec3
}

func (b Box) Validate() error {
	if !b.Min.IsFinite() || !b.Max.IsFinite() || b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return fmt.Errorf("%w: box needs finite corners with min <= max", ErrInvalidCollider)
	}
	return nil
}

func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Box) Intersect(from, to Vec3) (Hit, float64, bool) {
	if b.Contains(from) {
		return Hit{}, 0, false
	}

	d := to.Sub(from)
	origin := from.Array()
	dir := d.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	tmin, tmax := 0.0, 1.0
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < epsilon {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return Hit{}, 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tmin {
			tmin, axis, sign = t1, i, s
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return Hit{}, 0, false
		}
	}
	if axis < 0 {
		return Hit{}, 0, false
	}

	normal := make([]float64, 3)
	normal[axis] = sign
	return Hit{
		Point:  from.Add(d.Scale(tmin)),
		Normal: Vec3{normal[0], normal[1], normal[2]},
	}, tmin, true
}

// SceneObject is a named collider registered in a Scene.
type SceneObject struct {
	Name     string
	Collider Collider
}

// Scene is a flat collection of colliders acting as an Intersector. It is not
// safe for concurrent mutation.
type Scene struct {
	objects []SceneObject
}

func NewScene() *Scene {
	return &Scene{}
}

type validator interface {
	Validate() error
}

// Add registers a collider. Colliders that can validate themselves are
// checked first.
func (s *Scene) Add(name string, c Collider) error {
	if c == nil {
		return fmt.Errorf("%w: %q is nil", ErrInvalidCollider, name)
	}
	if v, ok := c.(validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("collider %q: %w", name, err)
		}
	}
	s.objects = append(s.objects, SceneObject{Name: name, Collider: c})
	return nil
}

func (s *Scene) Len() int { return len(s.objects) }

func (s *Scene) Objects() []SceneObject {
	out := make([]SceneObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// Nearest returns the closest contact along from->to and the name of the
// collider that produced it.
func (s *Scene) Nearest(from, to Vec3) (string, Hit, bool) {
	var (
		bestName string
		best     Hit
		bestF    = math.Inf(1)
		found    bool
	)
	for _, o := range s.objects {
		hit, f, ok := o.Collider.Intersect(from, to)
		if ok && f < bestF {
			bestName, best, bestF, found = o.Name, hit, f, true
		}
	}
	return bestName, best, found
}

func (s *Scene) Linecast(from, to Vec3) (Hit, bool) {
	_, hit, ok := s.Nearest(from, to)
	return hit, ok
}
