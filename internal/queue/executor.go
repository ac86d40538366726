package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tcrowley/dictate-api/internal/domain"
)

// execute runs the two sequential stages for one job: transcription, then
// summarization when requested. It is the only writer of the job's mutable
// fields during the job's active window. The input payload is released
// exactly once on every path, including panics in the backend.
func (q *Queue) execute(ctx context.Context, job *domain.Job) {
	logger := q.logger.With("job_id", job.ID)
	defer q.releaseInput(job, logger)

	opts := job.Options

	transcript, err := q.transcriber.Transcribe(ctx, job.AudioPath, opts.Language, opts.Temperature)
	if err != nil {
		logger.Error("transcription failed", "error", err)
		q.failJob(job, fmt.Sprintf("transcription failed: %s", err))
		return
	}

	q.setProgress(job, 100)
	logger.Info("transcription finished",
		"transcript_length", len(transcript.Text),
		"detected_language", transcript.Language)

	result := &domain.JobResult{
		Transcription: transcript.Text,
		Language:      transcript.Language,
		Duration:      transcript.Duration,
	}

	if opts.GenerateSummary && transcript.Text != "" {
		q.advance(job, domain.JobStatusSummarizing)

		summary, err := q.summarizer.Summarize(ctx, transcript.Text)
		if err != nil {
			// A summarization failure fails the whole job; the transcript
			// is not surfaced as a partial result.
			logger.Error("summarization failed", "error", err)
			q.failJob(job, fmt.Sprintf("summarization failed: %s", err))
			return
		}
		result.Summary = summary
	}

	q.completeJob(job, result)
	logger.Info("job completed", "summary_generated", result.Summary != "")
}

// setProgress records stage-local progress and publishes the change.
// Progress never decreases within a stage.
func (q *Queue) setProgress(job *domain.Job, progress int) {
	q.mu.Lock()
	if job.IsTerminal() || progress <= job.Progress {
		q.mu.Unlock()
		return
	}
	job.Progress = progress
	event := q.eventLocked(job)
	q.mu.Unlock()

	q.bus.Publish(event)
}

// advance moves the job into the next active stage and publishes the change.
func (q *Queue) advance(job *domain.Job, to domain.JobStatus) {
	q.mu.Lock()
	if err := job.Transition(to); err != nil {
		q.mu.Unlock()
		q.logger.Error("illegal job transition",
			"job_id", job.ID, "to", to, "error", err)
		return
	}
	event := q.eventLocked(job)
	q.mu.Unlock()

	q.bus.Publish(event)
}

// completeJob records the result, moves the job to its terminal completed
// state and releases the caller's progress callback.
func (q *Queue) completeJob(job *domain.Job, result *domain.JobResult) {
	q.mu.Lock()
	job.Result = result
	if err := job.Transition(domain.JobStatusCompleted); err != nil {
		job.Result = nil
		q.mu.Unlock()
		q.logger.Error("illegal completion transition", "job_id", job.ID, "error", err)
		return
	}
	q.recorder.JobCompleted(executionTime(job))
	event := q.eventLocked(job)
	q.mu.Unlock()

	q.bus.Publish(event)
	q.releaseCallback(job.ID)
}

// failJob records the failure reason, moves the job to its terminal failed
// state and releases the caller's progress callback. Calling it on a job
// that already reached a terminal state is a no-op.
func (q *Queue) failJob(job *domain.Job, reason string) {
	q.mu.Lock()
	if job.IsTerminal() {
		q.mu.Unlock()
		return
	}
	job.Error = reason
	if err := job.Transition(domain.JobStatusFailed); err != nil {
		job.Error = ""
		q.mu.Unlock()
		q.logger.Error("illegal failure transition", "job_id", job.ID, "error", err)
		return
	}
	q.recorder.JobFailed(executionTime(job))
	event := q.eventLocked(job)
	q.mu.Unlock()

	q.bus.Publish(event)
	q.releaseCallback(job.ID)
}

// releaseInput deletes the job's audio payload. Cleanup failures are logged
// and swallowed so they never mask the job's true outcome.
func (q *Queue) releaseInput(job *domain.Job, logger *slog.Logger) {
	if err := q.store.Remove(job.AudioPath); err != nil {
		logger.Warn("failed to release audio payload",
			"path", job.AudioPath,
			"error", err)
	}
}

// releaseCallback drops the per-job progress subscription once the job is
// terminal; the callback is borrowed, not retained beyond the job lifetime.
func (q *Queue) releaseCallback(id uuid.UUID) {
	q.mu.Lock()
	cancel := q.cbCancels[id]
	delete(q.cbCancels, id)
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// executionTime is the dispatch-to-terminal duration. Callers hold q.mu and
// call this only after the terminal transition set CompletedAt.
func executionTime(job *domain.Job) time.Duration {
	if job.StartedAt == nil || job.CompletedAt == nil {
		return 0
	}
	return job.CompletedAt.Sub(*job.StartedAt)
}
