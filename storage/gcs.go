package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const photoPrefix = "bootcamps/"

type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS authenticates with the service account key at credentialsPath,
// relative to the working directory.
func NewGCS(ctx context.Context, bucket, credentialsPath string) (*GCS, error) {
	if bucket == "" || credentialsPath == "" {
		return nil, fmt.Errorf("missing GCS env vars (GCS_BUCKET, CREDENTIALS_FILE_LOCATION)")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	client, err := gcs.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Save(ctx context.Context, name string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	obj := photoPrefix + name
	w := g.client.Bucket(g.bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentType(fh)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, obj), nil
}

func (g *GCS) Delete(ctx context.Context, stored string) error {
	err := g.client.Bucket(g.bucket).Object(photoPrefix + objectName(stored)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Close() error { return g.client.Close() }
