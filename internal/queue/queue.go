package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tcrowley/dictate-api/internal/domain"
	"github.com/tcrowley/dictate-api/internal/events"
	"github.com/tcrowley/dictate-api/internal/metrics"
	"github.com/tcrowley/dictate-api/internal/transcription"
)

// Common construction errors
var (
	ErrNilTranscriber = errors.New("transcriber cannot be nil")
	ErrNilSummarizer  = errors.New("summarizer cannot be nil")
	ErrNilStore       = errors.New("payload store cannot be nil")
	ErrNilBus         = errors.New("event bus cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
)

// Config holds configuration for the queue
type Config struct {
	// MaxConcurrent bounds the number of jobs executing at the same time.
	// Waiting-list length is unbounded; only concurrency is limited.
	MaxConcurrent int

	// DefaultLanguage is applied when a submission omits the language code
	DefaultLanguage string

	// DefaultTemperature is applied when a submission omits the sampling
	// temperature.
	DefaultTemperature float64

	// EvictAfter, when non-zero, removes terminal jobs from the index once
	// they have been terminal for this long. Zero keeps jobs forever.
	EvictAfter time.Duration

	// EvictInterval is how often the eviction check runs when EvictAfter
	// is set. If zero, defaults to 1 minute.
	EvictInterval time.Duration
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:   3,
		DefaultLanguage: "en",
		EvictInterval:   time.Minute,
	}
}

// PayloadStore releases audio payload storage once a job no longer needs it.
type PayloadStore interface {
	Remove(path string) error
}

// Status is a point-in-time snapshot of queue depth. It is eventually
// consistent with respect to concurrent submissions.
type Status struct {
	QueuedCount   int `json:"queued_count"`
	ActiveCount   int `json:"active_count"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Queue accepts transcription jobs, dispatches them to executors within the
// concurrency bound, and tracks their lifecycle in memory. A single instance
// is shared by all collaborators; there is no global state.
type Queue struct {
	cfg         Config
	transcriber transcription.Transcriber
	summarizer  transcription.Summarizer
	store       PayloadStore
	bus         *events.Bus
	recorder    metrics.Recorder
	logger      *slog.Logger

	mu        sync.Mutex
	waiting   []*domain.Job
	jobs      map[uuid.UUID]*domain.Job
	active    int
	cbCancels map[uuid.UUID]func()

	wake       chan struct{}
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a Queue. The recorder may be nil, in which case measurements
// are discarded.
func New(
	cfg Config,
	transcriber transcription.Transcriber,
	summarizer transcription.Summarizer,
	store PayloadStore,
	bus *events.Bus,
	recorder metrics.Recorder,
	logger *slog.Logger,
) (*Queue, error) {
	if transcriber == nil {
		return nil, ErrNilTranscriber
	}
	if summarizer == nil {
		return nil, ErrNilSummarizer
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if bus == nil {
		return nil, ErrNilBus
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}

	if cfg.MaxConcurrent <= 0 {
		logger.Warn("invalid max concurrent specified, using default",
			"specified", cfg.MaxConcurrent,
			"default", 3)
		cfg.MaxConcurrent = 3
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.EvictInterval <= 0 {
		cfg.EvictInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		cfg:         cfg,
		transcriber: transcriber,
		summarizer:  summarizer,
		store:       store,
		bus:         bus,
		recorder:    recorder,
		logger:      logger.With("component", "job_queue"),
		jobs:        make(map[uuid.UUID]*domain.Job),
		cbCancels:   make(map[uuid.UUID]func()),
		wake:        make(chan struct{}, 1),
		ctx:         ctx,
		cancelFunc:  cancel,
	}, nil
}

// Start launches the dispatch loop and, when eviction is configured, the
// eviction janitor.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.dispatchLoop()

	if q.cfg.EvictAfter > 0 {
		q.wg.Add(1)
		go q.evictLoop()
	}
}

// Stop shuts the queue down and waits for in-flight executors to return.
// Pending backend calls observe the cancelled context.
func (q *Queue) Stop() {
	q.cancelFunc()
	q.wg.Wait()
}

// Submit validates the options, creates a queued job record, appends it to
// the waiting list and returns the assigned id immediately. Submission never
// blocks on queue depth. The optional callback is subscribed to the job's
// progress events for the job's lifetime.
func (q *Queue) Submit(audioPath string, opts domain.JobOptions, callback events.Subscriber) (uuid.UUID, error) {
	select {
	case <-q.ctx.Done():
		return uuid.Nil, ErrQueueClosed
	default:
	}

	if opts.Language == "" {
		opts.Language = q.cfg.DefaultLanguage
	}
	if opts.Temperature == 0 {
		opts.Temperature = q.cfg.DefaultTemperature
	}

	job, err := domain.NewJob(audioPath, opts)
	if err != nil {
		return uuid.Nil, err
	}

	var cbCancel func()
	if callback != nil {
		cbCancel = q.bus.SubscribeJob(job.ID, callback)
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.waiting = append(q.waiting, job)
	if cbCancel != nil {
		q.cbCancels[job.ID] = cbCancel
	}
	q.recorder.JobSubmitted()
	q.recorder.SetQueueDepth(len(q.waiting), q.active)
	q.mu.Unlock()

	q.logger.Debug("job submitted",
		"job_id", job.ID,
		"language", opts.Language,
		"generate_summary", opts.GenerateSummary)

	q.signalWake()
	return job.ID, nil
}

// GetJob returns an immutable snapshot of the job's current fields.
// Returns ErrJobNotFound for unknown or evicted ids.
func (q *Queue) GetJob(id uuid.UUID) (domain.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return domain.Job{}, ErrJobNotFound
	}
	return job.Snapshot(), nil
}

// Status returns a point-in-time snapshot of queue depth.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Status{
		QueuedCount:   len(q.waiting),
		ActiveCount:   q.active,
		MaxConcurrent: q.cfg.MaxConcurrent,
	}
}

// signalWake nudges the dispatch loop without ever blocking the caller.
func (q *Queue) signalWake() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// dispatchLoop promotes waiting jobs whenever it is woken by a submission
// or a completion. It performs no I/O and never blocks outside the select.
func (q *Queue) dispatchLoop() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-q.wake:
			q.promote()
		}
	}
}

// promote moves jobs from the head of the waiting list into execution while
// free slots remain. Start order is strict FIFO.
func (q *Queue) promote() {
	q.mu.Lock()

	var started []*domain.Job
	var eventsOut []events.ProgressEvent
	for q.active < q.cfg.MaxConcurrent && len(q.waiting) > 0 {
		job := q.waiting[0]
		q.waiting = q.waiting[1:]
		q.active++

		if err := job.Transition(domain.JobStatusProcessing); err != nil {
			// Unreachable for a queued job; guard against index corruption.
			q.logger.Error("failed to dispatch job", "job_id", job.ID, "error", err)
			q.active--
			continue
		}

		started = append(started, job)
		eventsOut = append(eventsOut, q.eventLocked(job))
	}
	q.recorder.SetQueueDepth(len(q.waiting), q.active)
	q.mu.Unlock()

	for i, job := range started {
		q.logger.Info("job dispatched", "job_id", job.ID)
		q.bus.Publish(eventsOut[i])
		q.wg.Add(1)
		go q.run(job)
	}
}

// run wraps one executor invocation. The capacity slot is released in a
// deferred block so a defective executor can never deadlock the queue.
func (q *Queue) run(job *domain.Job) {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("job executor panicked", "job_id", job.ID, "panic", r)
			q.failJob(job, "internal executor error")
		}

		q.mu.Lock()
		q.active--
		q.recorder.SetQueueDepth(len(q.waiting), q.active)
		q.mu.Unlock()

		q.signalWake()
	}()

	q.execute(q.ctx, job)
}

// evictLoop periodically removes terminal jobs older than EvictAfter.
func (q *Queue) evictLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.cfg.EvictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.evictExpired()
		}
	}
}

func (q *Queue) evictExpired() {
	cutoff := time.Now().UTC().Add(-q.cfg.EvictAfter)

	q.mu.Lock()
	evicted := 0
	for id, job := range q.jobs {
		if job.IsTerminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(q.jobs, id)
			evicted++
		}
	}
	q.mu.Unlock()

	if evicted > 0 {
		q.logger.Info("evicted terminal jobs", "count", evicted)
	}
}

// eventLocked builds a progress event from the job's current fields.
// Callers must hold q.mu.
func (q *Queue) eventLocked(job *domain.Job) events.ProgressEvent {
	snap := job.Snapshot()
	return events.ProgressEvent{
		JobID:     snap.ID,
		Status:    snap.Status,
		Progress:  snap.Progress,
		Result:    snap.Result,
		Error:     snap.Error,
		Timestamp: time.Now().UTC(),
	}
}
