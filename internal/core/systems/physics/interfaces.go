package physics

// Intersector answers whether the straight segment between two points crosses
// solid geometry and, if so, where it first does.
// The predictor only ever talks to geometry through this interface.
type Intersector interface {
	Linecast(from, to Vec3) (Hit, bool)
}

// IntersectorFunc adapts a plain function to Intersector.
type IntersectorFunc func(from, to Vec3) (Hit, bool)

func (f IntersectorFunc) Linecast(from, to Vec3) (Hit, bool) { return f(from, to) }

// Collider is a single piece of solid geometry. Intersect reports the first
// contact along from->to together with its fraction of the segment in [0, 1].
type Collider interface {
	Intersect(from, to Vec3) (hit Hit, fraction float64, ok bool)
}
