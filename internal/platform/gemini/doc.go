// Package gemini implements the transcription.Summarizer interface using
// Google's Gemini API.
package gemini
