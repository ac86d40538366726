// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the transcription queue, translating HTTP concerns to job operations.
package api
