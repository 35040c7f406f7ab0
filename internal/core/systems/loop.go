package systems

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/ballistics/internal/core/observability/log"
)

var (
	ErrDuplicateSystem = errors.New("system already registered")
	ErrInvalidLoop     = errors.New("invalid loop settings")
)

// Loop drives registered systems at a fixed step. Within a tick systems run by
// phase, then by registration order. A loop is single-threaded.
type Loop struct {
	systems    []System
	fixedDelta float64
	logger     log.Log
	metrics    Metrics
	elapsed    float64
	next       int
}

func NewLoop(fixedDelta float64, logger log.Log) (*Loop, error) {
	if fixedDelta <= 0 {
		return nil, fmt.Errorf("%w: fixed delta must be positive, got %v", ErrInvalidLoop, fixedDelta)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Loop{fixedDelta: fixedDelta, logger: logger.Named("loop")}, nil
}

func (l *Loop) Register(s System) error {
	if slices.ContainsFunc(l.systems, func(o System) bool { return o.Name() == s.Name() }) {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	l.systems = append(l.systems, s)
	slices.SortStableFunc(l.systems, func(a, b System) int { return int(a.Phase()) - int(b.Phase()) })
	return nil
}

// ExecutionOrder lists system names in the order Step runs them.
func (l *Loop) ExecutionOrder() []string {
	out := make([]string, len(l.systems))
	for i, s := range l.systems {
		out[i] = s.Name()
	}
	return out
}

// Step runs every system once for the next tick. The first failing system
// aborts the tick.
func (l *Loop) Step(ctx context.Context) error {
	tick := Tick{Index: l.next, DeltaTime: l.fixedDelta, Elapsed: l.elapsed}
	start := time.Now()
	defer func() {
		dur := time.Since(start)
		l.metrics.Ticks++
		l.metrics.TotalRunTime += dur
		l.metrics.MaxTickRunTime = max(l.metrics.MaxTickRunTime, dur)
		l.next++
		l.elapsed += l.fixedDelta
	}()

	for _, s := range l.systems {
		l.metrics.SystemRuns++
		if err := s.Tick(ctx, tick); err != nil {
			l.metrics.ErrorCount++
			l.logger.Error("system failed",
				log.String("system", s.Name()),
				log.String("phase", s.Phase().String()),
				log.Int("tick", tick.Index),
				log.Error(err),
			)
			return fmt.Errorf("tick %d: %s: %w", tick.Index, s.Name(), err)
		}
	}
	return nil
}

// Run steps the loop ticks times, checking ctx between ticks.
func (l *Loop) Run(ctx context.Context, ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidLoop, ticks)
	}
	l.logger.Info("loop started", log.Int("ticks", ticks), log.Float64("fixed_delta", l.fixedDelta))
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
	l.logger.Info("loop finished",
		log.Int("ticks", l.metrics.Ticks),
		log.Duration("total", l.metrics.TotalRunTime),
		log.Duration("max_tick", l.metrics.MaxTickRunTime),
	)
	return nil
}

func (l *Loop) Metrics() Metrics { return l.metrics }
