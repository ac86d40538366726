// Package storage manages audio payload files between upload and cleanup.
// A payload is owned exclusively by its job record from the moment it is
// saved until the executor releases it after the job reaches a terminal
// state.
package storage
