package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestGetBeforeSet(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if _, err := s.Get(); !errors.Is(err, ErrNoBlob) {
		t.Fatalf("expected ErrNoBlob, got %v", err)
	}
}

func TestSetGetRemove(t *testing.T) {
	// Parent dir does not exist yet; Set must create it.
	s := NewFileStore(filepath.Join(t.TempDir(), "arrienda", "session.json"))

	if err := s.Set([]byte(`{"Token":"abc"}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	data, err := s.Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != `{"Token":"abc"}` {
		t.Errorf("got %q", data)
	}

	if err := s.Remove(); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := s.Get(); !errors.Is(err, ErrNoBlob) {
		t.Fatalf("expected ErrNoBlob after remove, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Remove(); err != nil {
		t.Fatalf("remove on empty slot should be a no-op, got %v", err)
	}
}

func TestSetReplacesPriorValue(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	if err := s.Set([]byte("old")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set([]byte("new")); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	data, err := s.Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("got %q, want %q", data, "new")
	}
}
