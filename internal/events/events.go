package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/tcrowley/dictate-api/internal/domain"
)

// ProgressEvent describes one job state or progress change. Exactly one of
// Result/Error is set, and only for terminal events.
type ProgressEvent struct {
	// JobID identifies the job the event belongs to
	JobID uuid.UUID `json:"job_id"`

	// Status is the job status after the change
	Status domain.JobStatus `json:"status"`

	// Progress is the stage-local percentage 0-100
	Progress int `json:"progress"`

	// Result is populated only on the completed event
	Result *domain.JobResult `json:"result,omitempty"`

	// Error is populated only on the failed event
	Error string `json:"error,omitempty"`

	// Timestamp is when the change was observed
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber receives progress events. Subscribers must not block for long;
// a panicking subscriber is isolated and never affects job execution.
type Subscriber func(event ProgressEvent)

// Emitter defines the interface for publishing progress events.
// The queue publishes through this interface without knowledge of observers.
type Emitter interface {
	// Publish delivers the event to all current subscribers.
	Publish(event ProgressEvent)
}
