package files_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/mkrupp/homegallery/internal/infra/logging"

	. "github.com/mkrupp/homegallery/internal/repo/files"
)

func setupFileStore(t *testing.T, subdir string) *Store {
	t.Helper()

	logging.Configure(context.TODO(), logging.LoggerConfig{
		OutputHandle: os.Stderr,
		Level:        "debug",
	}, "test")

	store, err := NewStore(context.TODO(), subdir, StoreConfig{
		Basedir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	return store
}

func TestStore_WriteRead(t *testing.T) {
	t.Parallel()

	store := setupFileStore(t, "originals")
	content := []byte("test file content")

	written, err := store.Write(context.TODO(), "file.bin", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if written != int64(len(content)) {
		t.Errorf("written bytes mismatch: want %d, got %d", len(content), written)
	}

	if !store.Exists("file.bin") {
		t.Error("expected file to exist after write")
	}

	got, err := store.Read(context.TODO(), "file.bin")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !bytes.Equal(content, got) {
		t.Errorf("content mismatch\nwant: %s\ngot:  %s", content, got)
	}
}

func TestStore_Size(t *testing.T) {
	t.Parallel()

	store := setupFileStore(t, "originals")

	if _, err := store.Write(context.TODO(), "file.bin", bytes.NewReader(make([]byte, 42))); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	size, err := store.Size("file.bin")
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}

	if size != 42 {
		t.Errorf("size mismatch: want 42, got %d", size)
	}
}

func TestStore_CopyTo(t *testing.T) {
	t.Parallel()

	src := setupFileStore(t, "originals")
	dst := setupFileStore(t, "thumbnails")
	content := []byte("copied content")

	if _, err := src.Write(context.TODO(), "a.bin", bytes.NewReader(content)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := src.CopyTo(context.TODO(), "a.bin", dst, "b.bin"); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	got, err := dst.Read(context.TODO(), "b.bin")
	if err != nil {
		t.Fatalf("read copy failed: %v", err)
	}

	if !bytes.Equal(content, got) {
		t.Errorf("copy content mismatch\nwant: %s\ngot:  %s", content, got)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store := setupFileStore(t, "originals")

	if _, err := store.Write(context.TODO(), "file.bin", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := store.Delete(context.TODO(), "file.bin"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if store.Exists("file.bin") {
		t.Error("expected file to be gone after delete")
	}

	// Deleting an absent file is a no-op.
	if err := store.Delete(context.TODO(), "file.bin"); err != nil {
		t.Errorf("delete of absent file failed: %v", err)
	}

	if err := store.Delete(context.TODO(), ""); err != nil {
		t.Errorf("delete of empty name failed: %v", err)
	}
}
