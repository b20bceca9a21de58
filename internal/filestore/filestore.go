// Package filestore keeps uploaded blobs in a flat directory. Blobs are
// named by a generated unique name with the original extension preserved;
// the mapping back to the original filename lives in the File metadata
// record.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the blob under a fresh generated name and returns that name
// together with the number of bytes written.
func (s *Store) Save(originalName string, r io.Reader) (string, int64, error) {
	storedName := uuid.New().String() + filepath.Ext(originalName)

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("close blob: %w", err)
	}

	return storedName, size, nil
}

func (s *Store) Open(storedName string) (io.ReadSeekCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(storedName)))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Remove unlinks the blob. Removal is irreversible; callers treat a
// failure here as best-effort.
func (s *Store) Remove(storedName string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(storedName)))
}
