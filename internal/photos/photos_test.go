package photos

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveNamesFileByUserAndTimestamp(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	at := time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC)
	path, err := s.Save(42, at, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "42_20260901_101500.jpg"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestSaveRefusesOverwrite(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC)
	_, err = s.Save(42, at, strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Save(42, at, strings.NewReader("second"))
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)

	path, err := s.Save(7, time.Now(), strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing twice is fine.
	require.NoError(t, s.Remove(path))
}

func TestRemoveRejectsPathOutsideDir(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "stray.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	assert.Error(t, s.Remove(outside))
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}
