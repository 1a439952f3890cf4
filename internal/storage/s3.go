package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Uploader stores media in an S3-compatible bucket. The bucket is expected
// to exist and allow public reads on uploaded objects.
type S3Uploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
	UseSSL    bool
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: creating s3 client: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, prefix string, file File) (string, error) {
	// Random suffix so two uploads with the same filename never collide.
	key := path.Join(prefix, uuid.NewString()+filepath.Ext(file.Name))

	_, err := u.client.PutObject(ctx, u.bucket, key, file.Reader, file.Size, minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: uploading %s: %w", key, err)
	}

	return u.baseURL + "/" + key, nil
}
