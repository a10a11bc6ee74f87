package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
)

// FileImageLoader reads photos from disk and checks they decode.
type FileImageLoader struct{}

func (FileImageLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", path, err)
	}
	return b, nil
}
