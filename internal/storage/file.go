// Package storage provides the durable local slot backing the session.
// It is a single scoped key-value blob: get, set, remove.
package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoBlob is returned by Get when nothing has been stored yet.
var ErrNoBlob = errors.New("no blob stored")

// BlobStore persists one opaque blob. Only the session store touches it.
type BlobStore interface {
	Get() ([]byte, error)
	Set(data []byte) error
	Remove() error
}

// FileStore keeps the blob in a single file under the user's config dir.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileStore) Set(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Remove() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
