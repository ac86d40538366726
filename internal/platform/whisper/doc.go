// Package whisper implements the transcription.Transcriber interface using
// the OpenAI audio transcription API.
package whisper
