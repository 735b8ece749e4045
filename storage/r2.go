package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Options struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string
}

// R2 stores photos in a Cloudflare R2 bucket through its S3 API.
type R2 struct {
	s3     *s3.Client
	bucket string
	domain string
}

func NewR2(ctx context.Context, o R2Options) (*R2, error) {
	if o.Bucket == "" || o.AccessKeyID == "" || o.SecretAccessKey == "" || o.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.Endpoint)
		opts.UsePathStyle = true
	})
	return &R2{s3: client, bucket: o.Bucket, domain: strings.TrimRight(o.PublicDomain, "/")}, nil
}

func (r *R2) Save(ctx context.Context, name string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	key := photoPrefix + name
	_, err = r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(r.bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(contentType(fh)),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fh.Filename, err)
	}
	return fmt.Sprintf("%s/%s/%s", r.domain, r.bucket, key), nil
}

func (r *R2) Delete(ctx context.Context, stored string) error {
	_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(photoPrefix + objectName(stored)),
	})
	return err
}

func (r *R2) Close() error { return nil }
