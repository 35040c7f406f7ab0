package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/zeusync/ballistics/internal/core/events/bus"
	"github.com/zeusync/ballistics/internal/core/observability/log"
	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

// Marker is the hit indicator. Without a hit it rests on the last sample and
// keeps the rotation it had.
type Marker struct {
	Position physics.Vec3 `json:"position"`
	Rotation cannon.Basis `json:"rotation"`
	Hit      bool         `json:"hit"`
}

// Frame is one drawable snapshot of a predicted path.
type Frame struct {
	Seq         uint64         `json:"seq"`
	Points      []physics.Vec3 `json:"points"`
	Marker      Marker         `json:"marker"`
	Fingerprint uint64         `json:"fingerprint"`
}

// Sink draws frames.
type Sink interface {
	Draw(frame Frame) error
}

// LineRenderer converts paths into frames and forwards them to a Sink,
// skipping paths identical to the last one drawn.
type LineRenderer struct {
	sink   Sink
	logger log.Log

	seq      uint64
	last     uint64
	drawn    bool
	rotation cannon.Basis
}

func NewLineRenderer(sink Sink, logger log.Log) *LineRenderer {
	if logger == nil {
		logger = log.Nop()
	}
	return &LineRenderer{
		sink:     sink,
		logger:   logger.Named("render"),
		rotation: cannon.Identity(),
	}
}

// Frame builds the frame for path without drawing it.
func (r *LineRenderer) Frame(path physics.Path) Frame {
	f := Frame{
		Seq:         r.seq,
		Points:      path.Positions(),
		Fingerprint: path.Fingerprint(),
	}
	if path.Len() == 0 {
		return f
	}
	f.Marker = Marker{Position: path.Last().Position, Rotation: r.rotation}
	if path.Hit != nil {
		f.Marker.Rotation = cannon.LookRotation(path.Hit.Normal, physics.Up())
		f.Marker.Hit = true
	}
	return f
}

// Render draws path unless it matches the previous one. It reports whether a
// frame reached the sink.
func (r *LineRenderer) Render(path physics.Path) (bool, error) {
	if path.Len() == 0 {
		return false, ErrEmptyPath
	}
	f := r.Frame(path)
	if r.drawn && f.Fingerprint == r.last {
		return false, nil
	}
	if err := r.sink.Draw(f); err != nil {
		return false, fmt.Errorf("draw frame %d: %w", f.Seq, err)
	}
	r.seq++
	r.last, r.drawn = f.Fingerprint, true
	r.rotation = f.Marker.Rotation
	r.logger.Debug("frame drawn", log.Uint64("seq", f.Seq), log.Int("points", len(f.Points)), log.Bool("hit", f.Marker.Hit))
	return true, nil
}

// Attach renders every predicted trajectory published on events.
func (r *LineRenderer) Attach(events bus.EventBus) (bus.Subscription, error) {
	return events.Subscribe(cannon.EventTrajectoryPredicted, func(e bus.Event) error {
		path, ok := e.Data().(physics.Path)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedPayload, e.Data())
		}
		_, err := r.Render(path)
		return err
	})
}

// JSONSink writes one JSON document per frame.
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (s *JSONSink) Draw(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(frame)
}

// Recorder keeps frames in memory.
type Recorder struct {
	Frames []Frame
}

func (r *Recorder) Draw(frame Frame) error {
	r.Frames = append(r.Frames, frame)
	return nil
}
