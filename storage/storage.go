package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const MaxUploadSize = 5 << 20 // 5 MB

var ErrFileType = errors.New("file type not allowed")
var ErrFileTooLarge = errors.New("file exceeds 5 MB")

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

var ErrNotStored = errors.New("file not found in storage")

// Uploader stores a file under folder and returns its reference. Delete takes
// that reference back.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// IsRemote reports a reference served by a remote host rather than this API.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}

// CheckFile validates size and sniffed content type of a multipart upload.
func CheckFile(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	ctype := http.DetectContentType(buf[:n])
	if i := strings.Index(ctype, ";"); i >= 0 {
		ctype = ctype[:i]
	}
	if !allowedTypes[ctype] {
		return "", fmt.Errorf("%w: %s", ErrFileType, ctype)
	}
	return ctype, nil
}

// SaveMultipart validates header and hands it to up.
func SaveMultipart(ctx context.Context, up Uploader, folder, filename string, header *multipart.FileHeader) (string, error) {
	if _, err := CheckFile(header); err != nil {
		return "", err
	}
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return up.Upload(ctx, folder, filename, io.LimitReader(f, MaxUploadSize+1))
}

func safeName(name string) string {
	return filepath.Base(filepath.Clean("/" + name))
}
