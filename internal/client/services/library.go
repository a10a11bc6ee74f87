package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/filex"
	"github.com/google/uuid"
)

// CoverName names a rendered cover file or object.
func CoverName(now time.Time, id uuid.UUID) string {
	return fmt.Sprintf("cover-%s-%s.png", now.UTC().Format("20060102-150405"), id.String()[:8])
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DirectoryLibrary saves covers as PNG files in a directory.
type DirectoryLibrary struct {
	dir string
	now func() time.Time
}

func NewDirectoryLibrary(dir string) *DirectoryLibrary {
	return &DirectoryLibrary{dir: dir, now: time.Now}
}

// RequestPermission probes the directory for write access.
func (l *DirectoryLibrary) RequestPermission(ctx context.Context) (models.PermissionStatus, error) {
	dir, err := filex.EnsureDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return models.PermissionDenied, nil
		}
		return models.PermissionNotDetermined, err
	}

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return models.PermissionDenied, nil
		}
		return models.PermissionNotDetermined, err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return models.PermissionAuthorized, nil
}

func (l *DirectoryLibrary) SaveImage(ctx context.Context, img image.Image) error {
	b, err := encodePNG(img)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := filex.EnsureDir(l.dir)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(filepath.Join(dir, CoverName(l.now(), uuid.New())), b, 0o644)
}
