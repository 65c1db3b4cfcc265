package storage

import (
	"context"
	"os"
	"path/filepath"
)

// FileSuffix is appended to a key to form its file name
const FileSuffix = ".txt"

// FileBackend keeps each key in <dir>/<key>.txt.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir, creating dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the file backing key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+FileSuffix)
}

// Get reads the file of key.
// Returns found=false if the file doesn't exist (graceful handling).
func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes the file of key.
// Uses atomic write pattern (write to temp file, then rename) for safety.
func (b *FileBackend) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := b.Path(key)
	tmpFile := path + ".tmp"

	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(value); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return err
	}

	// Close temp file before rename
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

// Delete removes the file of key.
func (b *FileBackend) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(b.Path(key))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Location returns the data directory.
func (b *FileBackend) Location() string {
	return b.dir
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
