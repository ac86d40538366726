package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *AudioStore {
	t.Helper()
	store, err := NewAudioStore(t.TempDir(), []string{"mp3", "wav", ".m4a"})
	require.NoError(t, err)
	return store
}

func TestAudioStore_SupportedFormat(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tests := []struct {
		filename string
		want     bool
	}{
		{"note.mp3", true},
		{"NOTE.MP3", true},
		{"meeting.wav", true},
		{"voice.m4a", true},
		{"clip.mov", false},
		{"noextension", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, store.SupportedFormat(tc.filename))
		})
	}
}

func TestAudioStore_SaveAndRemove(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	path, err := store.Save(strings.NewReader("fake audio bytes"), "note.mp3")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake audio bytes", string(data))
	assert.True(t, strings.HasSuffix(path, ".mp3"))

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAudioStore_Save_RejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("x"), "clip.mov")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAudioStore_Remove_MissingPayload(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	path, err := store.Save(strings.NewReader("x"), "note.wav")
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	assert.ErrorIs(t, store.Remove(path), ErrPayloadNotFound)
}

func TestNewAudioStore_CreatesBaseDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir() + "/nested/uploads"
	_, err := NewAudioStore(dir, []string{"mp3"})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
