package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/clients/gcp"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
)

// UploadResult reports one file of a batch. A batch is best effort: a failed
// file gets an Error and the rest still upload.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

type MediaService interface {
	UploadImage(ctx context.Context, filename string, file io.Reader) (*UploadResult, error)
}

type mediaService struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewMediaService(log *logger.Logger, bucket gcp.BucketService) MediaService {
	serviceLog := log.With("service", "MediaService")
	return &mediaService{
		log:    serviceLog,
		bucket: bucket,
	}
}

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

func (ms *mediaService) UploadImage(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, apierr.Validation("unsupported image type %q", ext)
	}

	key := fmt.Sprintf("uploads/%s/%s%s", rd.UserID, uuid.NewString(), ext)
	if err := ms.bucket.UploadFile(ctx, key, file); err != nil {
		ms.log.Warn("Image upload failed", "filename", filename, "error", err)
		return nil, fmt.Errorf("failed to upload %q: %w", filename, err)
	}
	return &UploadResult{
		Filename: filename,
		URL:      ms.bucket.GetPublicURL(key),
	}, nil
}
