package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"listing-market/internal/config"
)

// PhotoStorage stores listing photos and hands back stable reference keys.
// Listings persist keys only, never binary content.
type PhotoStorage interface {
	UploadPhoto(ctx context.Context, userID uint, fileName string, file io.Reader, size int64) (string, error)
	PhotoURL(ctx context.Context, key string) (string, error)
	DeletePhoto(ctx context.Context, key string) error
}

type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient connects to the object store and ensures the photo bucket exists
func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOClient{client: client, bucket: cfg.Storage.Bucket}, nil
}

// UploadPhoto stores an image under a generated key scoped to the seller
func (m *MinIOClient) UploadPhoto(ctx context.Context, userID uint, fileName string, file io.Reader, size int64) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("listings/%d/%s%s", userID, uuid.New().String(), fileExt)

	_, err := m.client.PutObject(ctx, m.bucket, key, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return key, nil
}

// PhotoURL returns a presigned GET URL for a photo key
func (m *MinIOClient) PhotoURL(ctx context.Context, key string) (string, error) {
	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, key, 24*time.Hour, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign photo URL: %w", err)
	}
	return presigned.String(), nil
}

// DeletePhoto removes a photo by key
func (m *MinIOClient) DeletePhoto(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
