package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalStore writes uploads under <root>/images so they are served from /images.
type LocalStore struct {
	root string
	now  func() time.Time
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, now: time.Now}
}

// ImagesDir is the directory served at /images.
func (s *LocalStore) ImagesDir() string {
	return filepath.Join(s.root, "images")
}

func (s *LocalStore) Upload(ctx context.Context, f File) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.ImagesDir(), f.Kind.Folder())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s-%d.%s", f.Kind, s.now().UnixMilli(), f.Extension())
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, f.Body)
	if err != nil {
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	log.Debug().Str("file", name).Int64("bytes", written).Msg("Stored upload locally")
	return &Object{
		URL:      path.Join("/images", f.Kind.Folder(), name),
		Filename: name,
		Size:     written,
		Local:    true,
	}, nil
}
