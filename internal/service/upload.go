package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/storage"
)

// Upload is a stored object and a time-limited URL to fetch it.
type Upload struct {
	Key     string `json:"key"`
	FileURL string `json:"fileUrl"`
}

// UploadService puts user files in object storage so documents can reference them.
type UploadService interface {
	// Upload streams r to object storage under a generated name that keeps the original
	// extension, and returns a presigned URL for it. The object is removed again if
	// the URL cannot be signed.
	Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*Upload, error)
}

type uploadService struct {
	store  storage.Storage
	expiry time.Duration
}

func NewUploadService(store storage.Storage, expiry time.Duration) UploadService {
	return &uploadService{store: store, expiry: expiry}
}

func (s *uploadService) Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*Upload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	key := path.Join("uploads", owner.ID, uuid.New().String()+filepath.Ext(originalFilename))

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"owner-id":          owner.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.PresignGet(ctx, info.Key, s.expiry)
	if err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &Upload{Key: info.Key, FileURL: url}, nil
}
