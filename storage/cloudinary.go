package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) publicID(name string) string {
	return c.folder + "/" + strings.TrimSuffix(name, filepath.Ext(name))
}

func (c *Cloudinary) Save(ctx context.Context, name string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	overwrite := true
	res, err := c.cld.Upload.Upload(ctx, f, uploader.UploadParams{
		PublicID:     c.publicID(name),
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, stored string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: c.publicID(objectName(stored))})
	return err
}

func (c *Cloudinary) Close() error { return nil }
