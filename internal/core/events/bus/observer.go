package bus

import (
	"time"

	"github.com/zeusync/ballistics/internal/core/observability/log"
)

// LogObserver writes one log entry per delivered event: debug on success,
// warn when a handler failed.
type LogObserver struct {
	logger log.Log
}

// NewLogObserver returns an observer logging under the "bus" name.
func NewLogObserver(logger log.Log) *LogObserver {
	if logger == nil {
		logger = log.Nop()
	}
	return &LogObserver{logger: logger.Named("bus")}
}

func (o *LogObserver) OnPublish(string, Event) {}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	fields := []log.Field{
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", duration),
	}
	if err != nil {
		o.logger.Warn("event handler failed", append(fields, log.Error(err))...)
		return
	}
	o.logger.Debug("event delivered", fields...)
}
