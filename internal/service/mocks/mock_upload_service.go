package mocks

import (
	"context"
	"io"

	"docflow/internal/model"
	"docflow/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*service.Upload, error) {
	args := m.Called(ctx, owner, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Upload), args.Error(1)
}
