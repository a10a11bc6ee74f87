package blobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/jarcover/internal/common"
	"github.com/dmitrijs2005/jarcover/internal/filex"
)

// FileRepository keeps one file per key in a directory.
type FileRepository struct {
	mu  sync.Mutex
	dir string
}

func NewFileRepository(dir string) (*FileRepository, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileRepository{dir: abs}, nil
}

func (r *FileRepository) path(key string) string {
	return filepath.Join(r.dir, key+".json")
}

func read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return read(r.path(key))
}

func (r *FileRepository) Previous(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return read(r.path(key) + common.PreviousSuffix)
}

// Set writes value atomically. A canceled ctx aborts before anything is
// written.
func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	p := r.path(key)
	current, err := read(p)
	switch {
	case err == nil:
		if err := filex.WriteFileAtomic(p+common.PreviousSuffix, current, 0o600); err != nil {
			return fmt.Errorf("keep previous %s: %w", key, err)
		}
	case !errors.Is(err, common.ErrNotFound):
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return filex.WriteFileAtomic(p, value, 0o600)
}
