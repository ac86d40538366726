package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Common errors returned by the AudioStore
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrPayloadNotFound   = errors.New("audio payload not found")
)

// AudioStore persists uploaded audio payloads under a base directory and
// releases them once the owning job no longer needs them.
type AudioStore struct {
	baseDir string
	formats map[string]struct{}
}

// NewAudioStore creates a store rooted at baseDir, creating the directory
// if needed. formats is the allow-list of accepted file extensions
// (without the leading dot).
func NewAudioStore(baseDir string, formats []string) (*AudioStore, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "dictate-uploads")
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		allowed[strings.ToLower(strings.TrimPrefix(f, "."))] = struct{}{}
	}

	return &AudioStore{
		baseDir: baseDir,
		formats: allowed,
	}, nil
}

// SupportedFormat reports whether the filename carries an allow-listed
// audio extension. Format validation happens at ingestion, before a job
// is ever created.
func (s *AudioStore) SupportedFormat(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.formats[ext]
	return ok
}

// Save writes the payload to a uniquely named file and returns its path.
func (s *AudioStore) Save(r io.Reader, filename string) (string, error) {
	if !s.SupportedFormat(filename) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.baseDir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create payload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write payload file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close payload file: %w", err)
	}

	return path, nil
}

// Remove deletes a stored payload. Removing a payload that is already gone
// returns ErrPayloadNotFound.
func (s *AudioStore) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPayloadNotFound, path)
		}
		return fmt.Errorf("failed to remove payload: %w", err)
	}
	return nil
}
