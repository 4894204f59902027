package mocks

import (
	"context"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, owner *model.User, in service.CreatePaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Checkout(ctx context.Context, owner *model.User, in service.CreatePaymentInput) (string, error) {
	args := m.Called(ctx, owner, in)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*service.ListResult[model.Payment], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Payment]), args.Error(1)
}

func (m *MockPaymentService) UpdateStatus(ctx context.Context, id, status string) (*model.Payment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) NotifyStatusChange(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentService) ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}
