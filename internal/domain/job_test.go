package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	t.Parallel()

	t.Run("creates queued job with defaults", func(t *testing.T) {
		t.Parallel()

		job, err := NewJob("/tmp/audio.mp3", JobOptions{Language: "en", Temperature: 0.2})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, job.ID)
		assert.Equal(t, JobStatusQueued, job.Status)
		assert.Equal(t, 0, job.Progress)
		assert.False(t, job.CreatedAt.IsZero())
		assert.Nil(t, job.StartedAt)
		assert.Nil(t, job.CompletedAt)
		assert.Nil(t, job.Result)
		assert.Empty(t, job.Error)
	})

	t.Run("rejects empty audio path", func(t *testing.T) {
		t.Parallel()

		_, err := NewJob("", JobOptions{})
		assert.ErrorIs(t, err, ErrEmptyAudioPath)
	})

	t.Run("rejects temperature out of range", func(t *testing.T) {
		t.Parallel()

		_, err := NewJob("/tmp/audio.mp3", JobOptions{Temperature: 1.5})
		assert.ErrorIs(t, err, ErrTemperatureOutOfRange)

		_, err = NewJob("/tmp/audio.mp3", JobOptions{Temperature: -0.1})
		assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
	})
}

func TestJobOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		temperature float64
		wantErr     error
	}{
		{"zero", 0.0, nil},
		{"mid range", 0.5, nil},
		{"upper bound", 1.0, nil},
		{"above range", 1.01, ErrTemperatureOutOfRange},
		{"negative", -0.01, ErrTemperatureOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := JobOptions{Temperature: tc.temperature}.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJob_Transition(t *testing.T) {
	t.Parallel()

	newJob := func(t *testing.T) *Job {
		t.Helper()
		job, err := NewJob("/tmp/audio.mp3", JobOptions{})
		require.NoError(t, err)
		return job
	}

	t.Run("full pipeline with summary", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)

		require.NoError(t, job.Transition(JobStatusProcessing))
		assert.NotNil(t, job.StartedAt)
		assert.Equal(t, 0, job.Progress)

		job.Progress = 100
		require.NoError(t, job.Transition(JobStatusSummarizing))
		assert.Equal(t, 0, job.Progress, "progress resets entering a new stage")

		require.NoError(t, job.Transition(JobStatusCompleted))
		assert.NotNil(t, job.CompletedAt)
		assert.Equal(t, 100, job.Progress)
		assert.True(t, job.IsTerminal())
	})

	t.Run("processing straight to completed", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)
		require.NoError(t, job.Transition(JobStatusProcessing))
		require.NoError(t, job.Transition(JobStatusCompleted))
		assert.True(t, job.IsTerminal())
	})

	t.Run("failure from either active stage", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)
		require.NoError(t, job.Transition(JobStatusProcessing))
		require.NoError(t, job.Transition(JobStatusFailed))
		assert.NotNil(t, job.CompletedAt)

		other := newJob(t)
		require.NoError(t, other.Transition(JobStatusProcessing))
		require.NoError(t, other.Transition(JobStatusSummarizing))
		require.NoError(t, other.Transition(JobStatusFailed))
	})

	t.Run("illegal edges rejected", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)
		assert.ErrorIs(t, job.Transition(JobStatusCompleted), ErrInvalidJobTransition)
		assert.ErrorIs(t, job.Transition(JobStatusSummarizing), ErrInvalidJobTransition)

		require.NoError(t, job.Transition(JobStatusProcessing))
		assert.ErrorIs(t, job.Transition(JobStatusQueued), ErrInvalidJobTransition)
	})

	t.Run("no transitions out of terminal states", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)
		require.NoError(t, job.Transition(JobStatusProcessing))
		require.NoError(t, job.Transition(JobStatusCompleted))

		for _, to := range []JobStatus{JobStatusQueued, JobStatusProcessing, JobStatusSummarizing, JobStatusFailed} {
			assert.ErrorIs(t, job.Transition(to), ErrInvalidJobTransition)
		}
	})

	t.Run("timestamps set at most once in order", func(t *testing.T) {
		t.Parallel()

		job := newJob(t)
		require.NoError(t, job.Transition(JobStatusProcessing))
		started := *job.StartedAt

		require.NoError(t, job.Transition(JobStatusCompleted))
		assert.Equal(t, started, *job.StartedAt)
		assert.False(t, job.CompletedAt.Before(*job.StartedAt))
		assert.False(t, job.StartedAt.Before(job.CreatedAt))
	})
}

func TestJob_Snapshot(t *testing.T) {
	t.Parallel()

	job, err := NewJob("/tmp/audio.mp3", JobOptions{GenerateSummary: true})
	require.NoError(t, err)
	require.NoError(t, job.Transition(JobStatusProcessing))
	job.Result = &JobResult{Transcription: "hello world", Language: "en"}

	snap := job.Snapshot()

	// Mutating the original must not be visible through the snapshot.
	job.Result.Transcription = "changed"
	job.Progress = 50
	later := time.Now().UTC().Add(time.Hour)
	job.StartedAt = &later

	assert.Equal(t, "hello world", snap.Result.Transcription)
	assert.Equal(t, 0, snap.Progress)
	assert.NotEqual(t, later, *snap.StartedAt)
}
