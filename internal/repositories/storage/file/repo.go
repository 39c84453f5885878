package filerepo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"docvault/internal/models"
)

const pkg = "fileRepo/"

// repository is a content-addressed blob store on the local filesystem:
// <root>/<digest[0:2]>/<digest[2:4]>/<digest>.
type repository struct {
	root string
}

func NewRepository(root string) *repository {
	return &repository{root: root}
}

func (r *repository) pathFor(digest string) string {
	if len(digest) < 4 {
		return filepath.Join(r.root, digest)
	}
	return filepath.Join(r.root, digest[0:2], digest[2:4], digest)
}

func (r *repository) Save(digest string, reader io.Reader) (string, error) {
	op := pkg + "Save"

	path := r.pathFor(digest)

	if _, err := os.Stat(path); err == nil {
		// Same content already stored; content addressing makes this a no-op.
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return path, nil
}

func (r *repository) Open(path string) (io.ReadCloser, error) {
	op := pkg + "Open"

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) Delete(path string) error {
	op := pkg + "Delete"

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
