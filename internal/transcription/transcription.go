package transcription

import "context"

// Transcript holds the output of a speech-to-text call.
type Transcript struct {
	// Text is the full transcript of the audio payload.
	Text string

	// Duration is the detected length of the audio in seconds.
	// Zero when the backend does not report it.
	Duration float64

	// Language is the language the transcript was produced in.
	Language string
}

// Transcriber defines the interface for speech-to-text services.
// The call blocks until the backend returns; the queue treats it as a
// single unit of work with possible failure.
type Transcriber interface {
	// Transcribe converts the audio file at audioPath into text.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - audioPath: Path to the stored audio payload
	//   - language: ISO language code for the expected speech
	//   - temperature: Sampling temperature in [0.0, 1.0]
	Transcribe(ctx context.Context, audioPath, language string, temperature float64) (*Transcript, error)
}

// Summarizer defines the interface for text summarization services.
type Summarizer interface {
	// Summarize produces a short summary of the provided transcript text.
	Summarize(ctx context.Context, text string) (string, error)
}
