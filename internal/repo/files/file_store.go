// Package files stores media on the local filesystem. Each Store owns one
// flat directory (originals, thumbnails, userpics) and only ever sees opaque
// generated names; user-controlled filenames never reach the disk.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mkrupp/homegallery/internal/infra/logging"
)

// StoreConfig holds configuration for the filesystem stores.
type StoreConfig struct {
	// Basedir is the root directory for media storage.
	Basedir string `env:"BASEDIR" default:"var/storage"`
}

// StoreFactory creates a Store for one subdirectory under the configured
// base directory.
type StoreFactory func(ctx context.Context, subdir string) (*Store, error)

// NewStoreFactory returns a StoreFactory bound to the given configuration.
func NewStoreFactory(cfg StoreConfig) StoreFactory {
	return func(ctx context.Context, subdir string) (*Store, error) {
		return NewStore(ctx, subdir, cfg)
	}
}

// Store reads and writes files in one directory.
type Store struct {
	dir string
	log logging.Logger
}

// NewStore creates the directory if needed and returns a store over it.
func NewStore(ctx context.Context, subdir string, cfg StoreConfig) (*Store, error) {
	dir := filepath.Join(cfg.Basedir, subdir)

	log := logging.GetLogger("repo.files.file_store").With(
		logging.Group("files", "dir", dir),
	)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}

	log.DebugContext(ctx, "store initialized")

	return &Store{dir: dir, log: log}, nil
}

// Path returns the full filesystem path for a stored name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether a file with the given name is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))

	return err == nil && !info.IsDir()
}

// Write streams content into a new file and returns the number of bytes
// written.
func (s *Store) Write(ctx context.Context, name string, content io.Reader) (written int64, err error) {
	path := s.Path(name)

	defer func() {
		if err != nil {
			s.log.ErrorContext(ctx, "write failed", "name", name, "error", err)
		} else {
			s.log.DebugContext(ctx, "file written", "name", name, "bytes", written)
		}
	}()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	written, err = io.Copy(file, content)
	if err != nil {
		return written, fmt.Errorf("copy content: %w", err)
	}

	return written, nil
}

// Read returns the full content of a stored file.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	content, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return content, nil
}

// Size returns the byte size of a stored file.
func (s *Store) Size(name string) (int64, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}

	return info.Size(), nil
}

// CopyTo duplicates a stored file into another store under a new name.
func (s *Store) CopyTo(ctx context.Context, name string, dst *Store, dstName string) error {
	src, err := os.Open(s.Path(name))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	if _, err := dst.Write(ctx, dstName, src); err != nil {
		return fmt.Errorf("write copy: %w", err)
	}

	return nil
}

// Delete removes a stored file. Deleting an absent file is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" || !s.Exists(name) {
		return nil
	}

	if err := os.Remove(s.Path(name)); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}

	s.log.DebugContext(ctx, "file deleted", "name", name)

	return nil
}
