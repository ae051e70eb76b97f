// Package images decodes uploaded recipe pictures, normalizes them to JPEG
// and keeps them on disk under the media root.
package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for media paths that escape the storage directory.
var ErrInvalidPath = errors.New("invalid media path")

// Storage writes images into {mediaRoot}/{subdir}/ and addresses them by a
// path relative to mediaRoot, e.g. "recipes/6f1c….jpg".
type Storage struct {
	mediaRoot string
	subdir    string
	mu        sync.RWMutex
}

// NewStorage creates the subdirectory under mediaRoot if needed.
func NewStorage(mediaRoot, subdir string) (*Storage, error) {
	if mediaRoot == "" {
		return nil, errors.New("media root cannot be empty")
	}
	if subdir == "" || strings.ContainsAny(subdir, `/\`) {
		return nil, fmt.Errorf("invalid subdirectory %q", subdir)
	}

	if err := os.MkdirAll(filepath.Join(mediaRoot, subdir), 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", subdir, err)
	}

	return &Storage{mediaRoot: mediaRoot, subdir: subdir}, nil
}

// Root returns the media root directory.
func (s *Storage) Root() string {
	return s.mediaRoot
}

// Save stores data under a fresh random name and returns its relative path.
func (s *Storage) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data cannot be empty")
	}

	rel := s.subdir + "/" + uuid.NewString() + ".jpg"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.abs(rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return rel, nil
}

// Exists reports whether rel points to a stored file.
func (s *Storage) Exists(rel string) bool {
	path, err := s.Path(rel)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes rel. Missing files are not an error.
func (s *Storage) Delete(rel string) error {
	path, err := s.Path(rel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Path resolves rel to an absolute file path inside this storage's subdirectory.
func (s *Storage) Path(rel string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(rel))
	if !strings.HasPrefix(clean, s.subdir+"/") || strings.Contains(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return s.abs(clean), nil
}

func (s *Storage) abs(rel string) string {
	return filepath.Join(s.mediaRoot, filepath.FromSlash(rel))
}
