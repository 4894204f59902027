package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docflow/internal/checkout"
	"docflow/internal/model"
	"docflow/internal/repository"
	repoMocks "docflow/internal/repository/mocks"
)

func TestPaymentService_Checkout(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: uuid.New().String()}
	in := CreatePaymentInput{Title: "Fee", Amount: 12.5}

	tests := []struct {
		name       string
		setup      func(r *repoMocks.MockPaymentRepository, g *mockGateway)
		wantID     string
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "opens session and records payment",
			setup: func(r *repoMocks.MockPaymentRepository, g *mockGateway) {
				r.On("FindByOwnerTitle", ctx, owner.ID, "Fee").Return(nil, repository.ErrNotFound)
				g.On("CreateCheckoutSession", ctx, checkout.Session{Title: "Fee", Amount: 12.5}).Return("cs_1", nil)
				r.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
					return p.TransactionID == "cs_1" && p.UserID == owner.ID && p.Amount == 12.5 && p.Status == model.StatusPending
				})).Return(&model.Payment{ID: "p1", TransactionID: "cs_1"}, nil)
			},
			wantID: "cs_1",
		},
		{
			name: "existing title stops before the gateway",
			setup: func(r *repoMocks.MockPaymentRepository, g *mockGateway) {
				r.On("FindByOwnerTitle", ctx, owner.ID, "Fee").Return(&model.Payment{ID: "p0"}, nil)
			},
			wantErr: ErrConflict,
		},
		{
			name: "gateway failure",
			setup: func(r *repoMocks.MockPaymentRepository, g *mockGateway) {
				r.On("FindByOwnerTitle", ctx, owner.ID, "Fee").Return(nil, repository.ErrNotFound)
				g.On("CreateCheckoutSession", ctx, mock.Anything).Return("", checkout.ErrGateway)
			},
			wantErr: ErrUpstream,
		},
		{
			name: "lost race at insert",
			setup: func(r *repoMocks.MockPaymentRepository, g *mockGateway) {
				r.On("FindByOwnerTitle", ctx, owner.ID, "Fee").Return(nil, repository.ErrNotFound)
				g.On("CreateCheckoutSession", ctx, mock.Anything).Return("cs_2", nil)
				r.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrConflict,
		},
		{
			name: "lookup failure",
			setup: func(r *repoMocks.MockPaymentRepository, g *mockGateway) {
				r.On("FindByOwnerTitle", ctx, owner.ID, "Fee").Return(nil, errors.New("db down"))
			},
			wantErrMsg: "lookup payment: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPaymentRepository)
			mGw := new(mockGateway)
			tt.setup(mRepo, mGw)

			id, err := NewPaymentService(mRepo, nil, nil, mGw).Checkout(ctx, owner, in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			mRepo.AssertExpectations(t)
			mGw.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: uuid.New().String()}
	mRepo := new(repoMocks.MockPaymentRepository)
	mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
		return p.TransactionID == "" && p.Amount == 0
	})).Return(&model.Payment{ID: "p1"}, nil).Once()
	mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate).Once()

	svc := NewPaymentService(mRepo, nil, nil, nil)

	_, err := svc.Create(ctx, owner, CreatePaymentInput{Title: "Free", Amount: 0})
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner, CreatePaymentInput{Title: "Free", Amount: 0})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Payment already exists with the same title", err.Error())
}

func TestPaymentService_ListAddsOwnerEmail(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockPaymentRepository)
	mUsers := new(repoMocks.MockUserRepository)
	svc := NewPaymentService(mRepo, mUsers, nil, nil)

	f := repository.PaymentFilter{Title: "fee"}
	mRepo.On("FindMany", ctx, f, repository.PageQuery{Page: 1, Limit: 10}).
		Return(&repository.PageResult[model.Payment]{Items: []model.Payment{
			{ID: "p1", UserID: "u1"}, {ID: "p2", UserID: "u2"},
		}, Total: 2}, nil).Once()
	mUsers.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Email: "ann@b.com"}, nil).Once()
	mUsers.On("FindByID", ctx, "u2").Return(&model.User{ID: "u2", Email: "bob@b.com"}, nil).Once()

	res, err := svc.List(ctx, f, repository.PageQuery{})

	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "ann@b.com", res.Items[0].OwnerEmail)
	assert.Equal(t, "bob@b.com", res.Items[1].OwnerEmail)
	mRepo.AssertExpectations(t)
	mUsers.AssertExpectations(t)
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mRepo := new(repoMocks.MockPaymentRepository)
	svc := NewPaymentService(mRepo, nil, nil, nil)

	assert.ErrorIs(t, svc.Delete(ctx, "nope"), ErrInvalidID)
	mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	mRepo.On("Delete", ctx, id).Return(nil).Twice()
	assert.NoError(t, svc.Delete(ctx, id))
	assert.NoError(t, svc.Delete(ctx, id))
	mRepo.AssertExpectations(t)
}

func TestPaymentService_UpdateStatusAndNotify(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()
	updated := &model.Payment{ID: id, UserID: "u1", Title: "Fee", Status: model.StatusRejected}

	mRepo := new(repoMocks.MockPaymentRepository)
	mUsers := new(repoMocks.MockUserRepository)
	mNotify := new(mockNotifier)
	mRepo.On("UpdateStatus", ctx, id, model.StatusRejected).Return(updated, nil)
	mUsers.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Email: "a@b.com"}, nil)
	mNotify.On("Notify", ctx, mock.Anything).Return(nil)

	svc := NewPaymentService(mRepo, mUsers, mNotify, nil)

	p, err := svc.UpdateStatus(ctx, id, "rejected")
	require.NoError(t, err)
	require.NoError(t, svc.NotifyStatusChange(ctx, p))

	mNotify.AssertCalled(t, "Notify", ctx, mock.Anything)

	mRepo.On("UpdateStatus", ctx, id, model.StatusApproved).Return(nil, repository.ErrNotFound)
	_, err = svc.UpdateStatus(ctx, id, "approved")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Payment details not found", err.Error())
}
