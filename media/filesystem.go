package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Filesystem keeps images as files named <uuid><ext> under one directory.
type Filesystem struct {
	dir string
}

func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{dir: dir}
}

func (fs *Filesystem) Save(_ context.Context, r io.Reader) (string, error) {
	_, ext, body, err := sniff(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", fs.dir, err)
	}

	id := uuid.New().String() + ext
	path := filepath.Join(fs.dir, id)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, body)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("copy file: %w", err)
	}
	if n > MaxUploadSize {
		os.Remove(path)
		return "", fmt.Errorf("image larger than %d bytes", MaxUploadSize)
	}
	log.Printf("image stored: %s", id)
	return id, nil
}

func (fs *Filesystem) Open(_ context.Context, id string) (io.ReadCloser, string, error) {
	path, ok := fs.path(id)
	if !ok {
		return nil, "", ErrNotFound
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(filepath.Ext(id))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return f, ct, nil
}

func (fs *Filesystem) Delete(_ context.Context, id string) error {
	path, ok := fs.path(id)
	if !ok {
		return ErrNotFound
	}
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove image %s: %w", id, err)
	}
	log.Printf("image removed: %s", id)
	return nil
}

// path resolves id inside the upload dir, refusing anything that could
// escape it.
func (fs *Filesystem) path(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", false
	}
	return filepath.Join(fs.dir, id), true
}
