// Package storage keeps uploaded bootcamp photos on the local disk or in a
// cloud bucket.
package storage

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZacIsrael/dev-camper-api/config"
	"github.com/ZacIsrael/dev-camper-api/services"
)

// Store is a PhotoStore that may hold a client connection.
type Store interface {
	services.PhotoStore
	Close() error
}

// New returns the store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocal(cfg.FileUploadPath)
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.CredentialsFileLocation)
	case "r2":
		return NewR2(ctx, R2Options{
			Bucket:          cfg.R2Bucket,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Endpoint:        cfg.R2Endpoint,
			PublicDomain:    cfg.R2PublicDomain,
		})
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "devcamper")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// objectName returns the last path element of a stored URL or name.
func objectName(stored string) string {
	if i := strings.IndexAny(stored, "?#"); i >= 0 {
		stored = stored[:i]
	}
	return path.Base(stored)
}
