package service

import (
	"BuilderCentral/internal/api/dto"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	log "log/slog"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize   = 10 << 20
	maxImageEdge   = 1200
	jpegQuality    = 85
	toolImagePath  = "tools/"
	sniffByteCount = 512
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// MediaService 工具封面上传
type MediaService interface {
	UploadToolImage(ctx context.Context, reader io.Reader, size int64) (*dto.MediaUploadDTO, error)
}

type mediaServiceImpl struct {
	storage ObjectStorage
}

func NewMediaService(storage ObjectStorage) MediaService {
	return &mediaServiceImpl{storage: storage}
}

// UploadToolImage 统一缩放并转码为 JPEG 后上传
func (s *mediaServiceImpl) UploadToolImage(ctx context.Context, reader io.Reader, size int64) (*dto.MediaUploadDTO, error) {
	if size > MaxImageSize {
		return nil, ErrFileTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(reader, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxImageSize {
		return nil, ErrFileTooLarge
	}
	if len(raw) == 0 {
		return nil, ErrFileNotSupported
	}

	head := raw
	if len(head) > sniffByteCount {
		head = head[:sniffByteCount]
	}
	if _, ok := allowedImageTypes[http.DetectContentType(head)]; !ok {
		return nil, ErrFileNotSupported
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		log.WarnContext(ctx, "decode upload image failed", "err", err)
		return nil, ErrFileNotSupported
	}
	img = fitImage(img)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	objectKey := toolImagePath + uuid.NewString() + ".jpg"
	bounds := img.Bounds()
	encodedSize := int64(buf.Len())
	if _, err = s.storage.UploadFile(ctx, objectKey, &buf, encodedSize, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &dto.MediaUploadDTO{
		URL:       s.storage.GetPublicURL(objectKey),
		ObjectKey: objectKey,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Size:      encodedSize,
	}, nil
}

// fitImage 长边不超过 maxImageEdge，小图保持原尺寸
func fitImage(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxImageEdge && b.Dy() <= maxImageEdge {
		return img
	}
	return imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
}
