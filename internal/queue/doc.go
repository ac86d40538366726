// Package queue implements the bounded-concurrency transcription job queue.
// It accepts submissions into an unbounded FIFO waiting list, dispatches at
// most a configured number of jobs for concurrent execution, runs the
// two-stage transcribe/summarize pipeline per job, and answers status
// queries over the in-memory job index.
package queue
