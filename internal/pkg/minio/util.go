package minio

import (
	"BuilderCentral/internal/api/config"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Storage 主桶的读写封装
type Storage struct {
	client           *minio.Client
	bucket           string
	externalEndpoint string
}

func NewStorage(client *minio.Client, cfg config.MinIOConfig) *Storage {
	return &Storage{
		client:           client,
		bucket:           cfg.MainBucket,
		externalEndpoint: cfg.ExternalEndpoint,
	}
}

// UploadFile 上传文件到MinIO
func (s *Storage) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	uploadInfo, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return uploadInfo.Key, nil
}

// DeleteFile 删除MinIO中的文件
func (s *Storage) DeleteFile(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetPublicURL 获取文件的公共访问URL
func (s *Storage) GetPublicURL(objectName string) string {
	return PublicURL(s.externalEndpoint, s.bucket, objectName)
}

// PublicURL 外部地址未带协议时默认 https
func PublicURL(endpoint, bucket, objectName string) string {
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, strings.TrimLeft(objectName, "/"))
}
