package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader copies a report file to remote storage.
type Uploader interface {
	Upload(ctx context.Context, reader io.Reader, remotePath string) error
	Name() string
}

// MinioConfig locates an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	Insecure  bool
}

// MinioUploader uploads to MinIO or any S3-compatible service.
type MinioUploader struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioUploader connects to the service and checks that the bucket exists.
func NewMinioUploader(ctx context.Context, cfg MinioConfig) (*MinioUploader, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, errors.New("minio: endpoint is required")
	case cfg.Bucket == "":
		return nil, errors.New("minio: bucket is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, errors.New("minio: access key and secret key are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio: bucket %s does not exist", cfg.Bucket)
	}
	return &MinioUploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (m *MinioUploader) Name() string {
	return "minio"
}

func (m *MinioUploader) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	objectName := remotePath
	if m.prefix != "" {
		objectName = path.Join(m.prefix, remotePath)
	}
	// -1 means unknown size; the client streams the content
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, -1, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}
	return nil
}

// UploadArtifacts uploads each file under its base name. It returns the first error.
func UploadArtifacts(ctx context.Context, u Uploader, paths []string) error {
	for _, p := range paths {
		if err := uploadFile(ctx, u, p); err != nil {
			return err
		}
	}
	return nil
}

func uploadFile(ctx context.Context, u Uploader, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("opening %s for upload: %w", p, err)
	}
	defer f.Close()
	if err := u.Upload(ctx, f, filepath.Base(p)); err != nil {
		return fmt.Errorf("%s upload of %s: %w", u.Name(), p, err)
	}
	return nil
}
