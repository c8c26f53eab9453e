package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage errors
var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrFileNotFound  = errors.New("file not found")
)

// Store is the staging area for attachment files between download and
// upload. Filenames are kept verbatim, so two concurrent attachments sharing
// a name can collide; that limitation is accepted.
type Store interface {
	Save(filename string, content io.Reader) (string, error)
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
}

// localStore implements Store on the local filesystem
type localStore struct {
	baseDir string
}

// NewLocalStore creates a Store rooted at baseDir, creating it if needed
func NewLocalStore(baseDir string) (Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &localStore{baseDir: baseDir}, nil
}

// validatePath ensures path resolves inside baseDir
func (s *localStore) validatePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return absPath, nil
}

// Save writes content under the attachment's own filename and returns the
// full path of the staged file. Any directory components in filename are
// stripped to keep the file inside the staging area.
func (s *localStore) Save(filename string, content io.Reader) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid attachment filename %q", filename)
	}

	fullPath := filepath.Join(s.baseDir, name)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}

	return fullPath, nil
}

// Get opens a staged file by its path
func (s *localStore) Get(path string) (io.ReadCloser, error) {
	fullPath, err := s.validatePath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open staged file: %w", err)
	}

	return file, nil
}

// Delete removes a staged file. Deleting a missing file is not an error.
func (s *localStore) Delete(path string) error {
	fullPath, err := s.validatePath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete staged file: %w", err)
	}

	return nil
}
