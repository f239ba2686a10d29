package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	path := filepath.Join("nested", "dir", "doc.pdf")
	content := []byte("%PDF-1.7 test")

	if store.Exists(ctx, path) {
		t.Error("file should not exist before write")
	}
	if err := store.Write(ctx, path, content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !store.Exists(ctx, path) {
		t.Error("file should exist after write")
	}

	got, err := store.Read(ctx, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read returned %q, want %q", got, content)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Exists(ctx, path) {
		t.Error("file should not exist after delete")
	}
}

func TestLocalStorageReadMissing(t *testing.T) {
	store := NewLocalStorage(t.TempDir())

	_, err := store.Read(context.Background(), "missing.pdf")
	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("expected StorageError, got %v", err)
	}
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	if err := store.Delete(context.Background(), "missing.pdf"); err != nil {
		t.Errorf("deleting a missing file should not fail: %v", err)
	}
}

func TestLocalStorageAbsolutePathsBypassBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	store := NewLocalStorage(base)
	ctx := context.Background()

	abs := filepath.Join(other, "doc.pdf")
	if err := store.Write(ctx, abs, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !store.Exists(ctx, abs) {
		t.Error("absolute path should resolve as given")
	}
}
