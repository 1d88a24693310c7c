// Package photos stores client-attached photos as write-once files on disk.
package photos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/9304065865a/podolog/core/logger"
)

// Store writes photo blobs under a single directory. Paths are generated from
// the user id and a timestamp; callers treat them as opaque references.
type Store struct {
	dir string
}

// NewStore ensures the directory exists and returns a Store rooted there.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("photos: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("photos: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage root.
func (s *Store) Dir() string { return s.dir }

// Save streams r into a new file named after the user and the current time.
// Returns the stored path.
func (s *Store) Save(userID int64, now time.Time, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d_%s.jpg", userID, now.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("photos: create %s: %w", name, err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("photos: write %s: %w", name, err)
	}

	logger.Debug(logger.Background(), "photos", "photo.saved",
		slog.Int64("user_id", userID),
		slog.String("photo", name),
		slog.Int64("bytes", written),
	)
	return path, nil
}

// Remove deletes a previously saved photo. Paths outside the store directory
// are rejected; a missing file is not an error.
func (s *Store) Remove(path string) error {
	cleaned := filepath.Clean(path)
	if filepath.Dir(cleaned) != filepath.Clean(s.dir) {
		return fmt.Errorf("photos: %s is outside the store", path)
	}
	if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("photos: remove: %w", err)
	}
	return nil
}
