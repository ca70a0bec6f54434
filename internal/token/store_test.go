package token

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyring.json")
	return NewFileStore(path), path
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, AuthTokenKey, "tok-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, AuthTokenKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("Get = %q, want %q", got, "tok-123")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	store, _ := tempStore(t)

	_, err := store.Get(context.Background(), AuthTokenKey)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, AuthTokenKey, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, AuthTokenKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, AuthTokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("error after delete = %v, want ErrNotFound", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, AuthTokenKey); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	store, path := tempStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, AuthTokenKey, "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewFileStore(path)
	got, err := reopened.Get(ctx, AuthTokenKey)
	if err != nil {
		t.Fatalf("Get on reopened store failed: %v", err)
	}
	if got != "persisted" {
		t.Errorf("Get = %q, want %q", got, "persisted")
	}
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	store, path := tempStore(t)
	if err := store.Set(context.Background(), AuthTokenKey, "secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("keyring permissions = %o, want 600", perm)
	}
}
