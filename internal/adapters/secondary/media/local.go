package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

// LocalStore écrit les images sur disque ; le serveur HTTP les expose sous /uploads.
// Pratique en local, pas fait pour plusieurs instances.
type LocalStore struct {
	root      string
	folder    string
	publicURL string
}

func NewLocalStore(root, folder, publicURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("media root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, filepath.FromSlash(folder)), 0o755); err != nil {
		return nil, fmt.Errorf("media root: %w", err)
	}
	return &LocalStore{root: abs, folder: folder, publicURL: publicURL}, nil
}

var _ ports.MediaStore = (*LocalStore)(nil)

// Root est le dossier servi statiquement.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Upload(ctx context.Context, img ports.ImageUpload) (*domain.Image, error) {
	key := objectKey(s.folder, img.Filename, img.ContentType)
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, contextReader{ctx: ctx, r: img.Body}); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close %s: %w", key, err)
	}

	return &domain.Image{URL: publicURL(s.publicURL, key), ID: key}, nil
}

func (s *LocalStore) Delete(ctx context.Context, imageID string) error {
	path, err := s.pathFor(imageID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", imageID, err)
	}
	return nil
}

// pathFor refuse toute clé qui sortirait de la racine.
func (s *LocalStore) pathFor(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if key == "" || !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid image id %q", key)
	}
	return path, nil
}

// contextReader interrompt la copie si la requête est abandonnée.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
