package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalUploader writes files below Root and serves them under URLPrefix.
type LocalUploader struct {
	Root      string
	URLPrefix string
}

func NewLocalUploader(root string) *LocalUploader {
	return &LocalUploader{Root: root, URLPrefix: "/uploads"}
}

func (l *LocalUploader) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = safeName(folder)
	filename = safeName(filename)

	dir := filepath.Join(l.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(l.URLPrefix, folder, filename), nil
}

// Path maps a reference returned by Upload to its file below Root. Anything
// outside URLPrefix/<folder>/<file> is ErrNotStored.
func (l *LocalUploader) Path(ref string) (string, error) {
	rest, ok := strings.CutPrefix(ref, l.URLPrefix+"/")
	if !ok {
		return "", ErrNotStored
	}
	folder, filename, ok := strings.Cut(rest, "/")
	if !ok || folder != safeName(folder) || filename != safeName(filename) {
		return "", ErrNotStored
	}
	p := filepath.Join(l.Root, folder, filename)
	if _, err := os.Stat(p); err != nil {
		return "", ErrNotStored
	}
	return p, nil
}

func (l *LocalUploader) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.Path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
