// Package events provides the progress event stream for transcription jobs.
//
// The queue publishes a ProgressEvent on every job state or progress change.
// Multiple observers (the transport layer, per-job caller callbacks, metrics)
// can subscribe to the same bus without the executor needing any knowledge of
// them, keeping notification strictly best-effort and decoupled.
package events
