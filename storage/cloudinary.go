package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores files in Cloudinary under "sekarnet/<folder>".
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	unique := false
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         "sekarnet/" + safeName(folder),
		PublicID:       strings.TrimSuffix(safeName(filename), filepath.Ext(filename)),
		UniqueFilename: &unique,
		ResourceType:   "auto",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, ref string) error {
	publicID, ok := cloudinaryPublicID(ref)
	if !ok {
		return ErrNotStored
	}
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// cloudinaryPublicID extracts "sekarnet/<folder>/<name>" from a delivery url
// like https://res.cloudinary.com/<cloud>/image/upload/v123/sekarnet/<folder>/<name>.png.
func cloudinaryPublicID(ref string) (string, bool) {
	_, rest, ok := strings.Cut(ref, "/upload/")
	if !ok {
		return "", false
	}
	if version, after, found := strings.Cut(rest, "/"); found && len(version) > 1 && version[0] == 'v' {
		if _, err := strconv.Atoi(version[1:]); err == nil {
			rest = after
		}
	}
	if !strings.HasPrefix(rest, "sekarnet/") {
		return "", false
	}
	return strings.TrimSuffix(rest, path.Ext(rest)), true
}

// New picks Cloudinary when a url is configured, local disk otherwise.
func New(cloudinaryURL, uploadDir string) (Uploader, error) {
	if cloudinaryURL != "" {
		return NewCloudinaryUploader(cloudinaryURL)
	}
	return NewLocalUploader(uploadDir), nil
}
