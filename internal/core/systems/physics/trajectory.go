package physics

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/ballistics/internal/core/observability/log"
)

// Request is the input of a single prediction. It is passed by value and never
// mutated.
type Request struct {
	Start        Vec3
	Velocity     Vec3
	Acceleration Vec3
	MaxTime      float64
	Resolution   int
}

// Validate rejects requests that would produce a degenerate step.
func (r Request) Validate() error {
	if r.Resolution < 1 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidRequest, ErrInvalidResolution, r.Resolution)
	}
	if !finite(r.MaxTime) || r.MaxTime <= 0 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidRequest, ErrInvalidMaxTime, r.MaxTime)
	}
	vectors := []struct {
		name string
		v    Vec3
	}{
		{"start", r.Start},
		{"velocity", r.Velocity},
		{"acceleration", r.Acceleration},
	}
	for _, f := range vectors {
		if !f.v.IsFinite() {
			return fmt.Errorf("%w: %w (%s=%v)", ErrInvalidRequest, ErrInvalidVector, f.name, f.v)
		}
	}
	return nil
}

// Step is the time between two consecutive samples.
func (r Request) Step() float64 { return r.MaxTime / float64(r.Resolution) }

// Sample is one point of a predicted path.
type Sample struct {
	Index    int
	Time     float64
	Position Vec3
}

// Hit describes the first contact of a line test.
type Hit struct {
	Point  Vec3
	Normal Vec3
}

// Path is the result of Predict. Samples always holds at least the start
// position; Hit is nil when the whole time budget was traversed.
type Path struct {
	Samples []Sample
	Hit     *Hit
	Step    float64
}

func (p Path) Len() int { return len(p.Samples) }

// Positions returns the sample positions in order.
func (p Path) Positions() []Vec3 {
	out := make([]Vec3, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Position
	}
	return out
}

// Last returns the final sample. It panics on a zero Path.
func (p Path) Last() Sample { return p.Samples[len(p.Samples)-1] }

// Fingerprint hashes sample positions and the hit so consumers can detect an
// unchanged path without comparing every point.
func (p Path) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*3)
	put := func(v Vec3) {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Y))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Z))
		_, _ = d.Write(buf)
	}
	for _, s := range p.Samples {
		put(s.Position)
	}
	if p.Hit != nil {
		_, _ = d.WriteString("hit")
		put(p.Hit.Point)
		put(p.Hit.Normal)
	}
	return d.Sum64()
}

// PositionAt evaluates x0 + v0*t + a*t^2/2.
func PositionAt(start, velocity, acceleration Vec3, t float64) Vec3 {
	return start.Add(velocity.Scale(t)).Add(acceleration.Scale(0.5 * t * t))
}

// Predict samples the trajectory described by req at Resolution evenly spaced
// times up to MaxTime, line testing every segment against in. The path stops
// at the first reported hit and its final sample is the hit point.
// A nil intersector treats the world as empty.
func Predict(req Request, in Intersector) (Path, error) {
	if err := req.Validate(); err != nil {
		return Path{}, err
	}

	step := req.Step()
	path := Path{
		Samples: make([]Sample, 1, req.Resolution+1),
		Step:    step,
	}
	path.Samples[0] = Sample{Index: 0, Time: 0, Position: req.Start}

	t := 0.0
	last := req.Start
	for i := 1; i <= req.Resolution; i++ {
		t = math.Min(t+step, req.MaxTime)
		if i == req.Resolution {
			// land exactly on the budget regardless of accumulated rounding
			t = req.MaxTime
		}
		next := PositionAt(req.Start, req.Velocity, req.Acceleration, t)

		if in != nil {
			if hit, ok := in.Linecast(last, next); ok {
				path.Samples = append(path.Samples, Sample{Index: i, Time: t, Position: hit.Point})
				path.Hit = &hit
				return path, nil
			}
		}

		path.Samples = append(path.Samples, Sample{Index: i, Time: t, Position: next})
		last = next
	}

	return path, nil
}

// Predictor binds an Intersector and a logger to Predict.
type Predictor struct {
	intersector Intersector
	logger      log.Log
}

func NewPredictor(intersector Intersector, logger log.Log) *Predictor {
	if logger == nil {
		logger = log.Nop()
	}
	return &Predictor{
		intersector: intersector,
		logger:      logger.Named("predictor"),
	}
}

func (p *Predictor) Predict(req Request) (Path, error) {
	path, err := Predict(req, p.intersector)
	if err != nil {
		p.logger.Warn("prediction rejected",
			log.Int("resolution", req.Resolution),
			log.Float64("max_time", req.MaxTime),
			log.Error(err),
		)
		return path, err
	}

	if path.Hit != nil {
		p.logger.Debug("trajectory obstructed",
			log.Int("samples", path.Len()),
			log.Vector("point", path.Hit.Point.X, path.Hit.Point.Y, path.Hit.Point.Z),
			log.Vector("normal", path.Hit.Normal.X, path.Hit.Normal.Y, path.Hit.Normal.Z),
		)
	}
	return path, nil
}
