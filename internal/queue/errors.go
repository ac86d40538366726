package queue

import "errors"

// Common errors returned by the Queue
var (
	// ErrJobNotFound is returned when a queried job id is unknown or has
	// been evicted from the in-memory index
	ErrJobNotFound = errors.New("job not found")

	// ErrQueueClosed is returned by Submit after the queue has been stopped
	ErrQueueClosed = errors.New("queue is closed")
)
