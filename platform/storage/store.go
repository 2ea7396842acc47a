package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/MansiJagta/echo-forge-create/models"
)

// AudioStore is where generated speech ends up. The download endpoint reads
// through the same interface, so the backend can be swapped without touching
// the request flow.
type AudioStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) error
	// Open returns models.ErrNotFound when no object has that name.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
}

// LocalStore keeps generated audio on the local filesystem.
type LocalStore struct {
	fs  afero.Fs
	dir string
}

func NewLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &LocalStore{fs: fs, dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64) error {
	f, err := s.fs.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	return f.Close()
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	path := filepath.Join(s.dir, name)
	info, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, models.ErrNotFound
		}
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, info.Size(), nil
}
