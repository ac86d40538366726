// Package transcription provides interfaces for interacting with external
// speech-to-text and summarization services. It abstracts the details of the
// backend API integration, allowing the job queue to execute transcription
// work without coupling to specific external services.
package transcription
