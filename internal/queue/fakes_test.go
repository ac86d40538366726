package queue

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcrowley/dictate-api/internal/events"
	"github.com/tcrowley/dictate-api/internal/transcription"
)

// fakeTranscriber returns a canned transcript unless fn overrides the call.
type fakeTranscriber struct {
	mu    sync.Mutex
	calls []string
	fn    func(ctx context.Context, audioPath, language string, temperature float64) (*transcription.Transcript, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, language string, temperature float64) (*transcription.Transcript, error) {
	f.mu.Lock()
	f.calls = append(f.calls, audioPath)
	fn := f.fn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, audioPath, language, temperature)
	}
	return &transcription.Transcript{Text: "hello world", Language: language, Duration: 1.5}, nil
}

func (f *fakeTranscriber) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeSummarizer returns a canned summary unless fn overrides the call.
type fakeSummarizer struct {
	mu    sync.Mutex
	calls []string
	fn    func(ctx context.Context, text string) (string, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	fn := f.fn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return "Greeting.", nil
}

// countingStore records how often each payload path is removed.
type countingStore struct {
	mu      sync.Mutex
	removed map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{removed: make(map[string]int)}
}

func (s *countingStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[path]++
	return nil
}

func (s *countingStore) removeCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed[path]
}

// testDeps bundles the collaborators a queue under test needs.
type testDeps struct {
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	store       *countingStore
	bus         *events.Bus
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDeps() *testDeps {
	logger := newTestLogger()
	return &testDeps{
		transcriber: &fakeTranscriber{},
		summarizer:  &fakeSummarizer{},
		store:       newCountingStore(),
		bus:         events.NewBus(logger),
	}
}

// newTestQueue builds and starts a queue over the fakes, stopping it when
// the test finishes.
func newTestQueue(t *testing.T, cfg Config, deps *testDeps) *Queue {
	t.Helper()

	q, err := New(cfg, deps.transcriber, deps.summarizer, deps.store, deps.bus, nil, newTestLogger())
	require.NoError(t, err)

	q.Start()
	t.Cleanup(q.Stop)
	return q
}
