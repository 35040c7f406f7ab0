package bus

import "time"

// EventBus is a synchronous, in-process pub/sub bus.
//
//   - Type-based fan-out: handlers subscribe by Event.Type(); the Wildcard type
//     receives every event.
//   - Ordered delivery: handlers run in the caller goroutine in the order they
//     subscribed.
//   - Error aggregation: handler errors are joined and returned from Publish.
//   - Observers see every publish and can count deliveries.
type EventBus interface {
	// Publish delivers the event to all subscribers of event.Type() and to
	// wildcard subscribers. If one or more handlers fail, a joined error is
	// returned after every handler has run.
	Publish(event Event) error

	// Subscribe registers a handler and returns a handle that can cancel it.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	// AddObserver registers obs once; adding the same observer again is a no-op.
	AddObserver(obs EventBusObserver)
	// GetMetrics returns accumulated counters. They only move while at least
	// one observer is registered.
	GetMetrics() EventBusMetrics
}

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about publishes and deliveries.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

// EventBusMetrics is a minimal set of counters.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
