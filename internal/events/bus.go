package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Bus is an in-memory fan-out implementation of the Emitter interface.
// It stores registered subscribers and dispatches events to them
// synchronously, isolating each subscriber from the others.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]subscription
	nextID int
	logger *slog.Logger
}

type subscription struct {
	jobID uuid.UUID // uuid.Nil subscribes to all jobs
	fn    Subscriber
}

// NewBus creates a new instance of Bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]subscription),
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers a subscriber for events of all jobs.
// The returned function cancels the subscription.
func (b *Bus) Subscribe(fn Subscriber) func() {
	return b.add(uuid.Nil, fn)
}

// SubscribeJob registers a subscriber that only receives events for the
// given job. The returned function cancels the subscription.
func (b *Bus) SubscribeJob(jobID uuid.UUID, fn Subscriber) func() {
	return b.add(jobID, fn)
}

func (b *Bus) add(jobID uuid.UUID, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{jobID: jobID, fn: fn}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers the event to all matching subscribers. A failing
// subscriber never prevents delivery to the others and never propagates
// back to the publisher.
func (b *Bus) Publish(event ProgressEvent) {
	b.mu.RLock()
	matched := make([]Subscriber, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.jobID == uuid.Nil || sub.jobID == event.JobID {
			matched = append(matched, sub.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range matched {
		b.deliver(fn, event)
	}
}

// deliver invokes one subscriber, recovering from panics so that
// notification stays best-effort.
func (b *Bus) deliver(fn Subscriber, event ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				"job_id", event.JobID,
				"status", event.Status,
				"panic", r)
		}
	}()
	fn(event)
}

// Ensure Bus implements Emitter
var _ Emitter = (*Bus)(nil)
