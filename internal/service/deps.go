package service

import (
	"BuilderCentral/internal/model"
	"BuilderCentral/internal/pkg/preview"
	"context"
	"io"
	"time"
)

// ActivityPublisher 活动事件投递（Kafka）
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, activity *model.Activity) error
}

// Cache Redis 上用到的操作
type Cache interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...interface{}) error
	DeleteKey(ctx context.Context, keys ...string) error
}

// ObjectStorage 对象存储（MinIO）
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	GetPublicURL(objectName string) string
}

// LinkFetcher 链接预览抓取
type LinkFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*preview.LinkPreview, error)
}
