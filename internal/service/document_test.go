package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docflow/internal/model"
	"docflow/internal/notify"
	"docflow/internal/repository"
	repoMocks "docflow/internal/repository/mocks"
)

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: uuid.New().String()}

	tests := []struct {
		name       string
		repoErr    error
		wantErr    error
		wantErrMsg string
	}{
		{name: "stores pending document"},
		{name: "duplicate title", repoErr: repository.ErrDuplicate, wantErr: ErrConflict},
		{name: "store failure", repoErr: errors.New("db down"), wantErrMsg: "save document: db down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mRepo, new(repoMocks.MockUserRepository), new(mockNotifier))

			call := mRepo.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
				_, err := uuid.Parse(d.ID)
				return err == nil && d.UserID == owner.ID && d.Title == "T" && d.FileURL == "u" &&
					d.Status == model.StatusPending && !d.CreatedAt.IsZero() && d.CreatedAt.Equal(d.UpdatedAt)
			}))
			if tt.repoErr != nil {
				call.Return(nil, tt.repoErr)
			} else {
				call.Return(&model.Document{ID: "x", Status: model.StatusPending}, nil)
			}

			doc, err := svc.Create(ctx, owner, CreateDocumentInput{Title: "T", FileURL: "u"})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Document already exists with the same title", err.Error())
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, model.StatusPending, doc.Status)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	mUsers := new(repoMocks.MockUserRepository)
	svc := NewDocumentService(mRepo, mUsers, new(mockNotifier))

	filter := repository.DocumentFilter{Title: "rep"}
	mRepo.On("FindMany", ctx, filter, repository.PageQuery{Page: 2, Limit: 5}).
		Return(&repository.PageResult[model.Document]{Items: []model.Document{
			{ID: "6", UserID: "u1"}, {ID: "7", UserID: "gone"}, {ID: "8", UserID: "u1"},
		}, Total: 12}, nil).Once()
	mUsers.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Email: "ann@b.com"}, nil).Once()
	mUsers.On("FindByID", ctx, "gone").Return(nil, repository.ErrNotFound).Once()

	res, err := svc.List(ctx, filter, repository.PageQuery{Page: 2, Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, repository.Meta{Total: 12, Page: 2, Limit: 5, TotalPages: 3}, res.Meta)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "ann@b.com", res.Items[0].OwnerEmail)
	assert.Empty(t, res.Items[1].OwnerEmail)
	assert.Equal(t, "ann@b.com", res.Items[2].OwnerEmail)
	mUsers.AssertExpectations(t)

	mRepo.On("FindMany", ctx, repository.DocumentFilter{}, repository.PageQuery{Page: 1, Limit: 10}).
		Return(&repository.PageResult[model.Document]{}, nil).Once()

	res, err = svc.List(ctx, repository.DocumentFilter{}, repository.PageQuery{})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.Meta.TotalPages)
	mRepo.AssertExpectations(t)

	mRepo.On("FindMany", ctx, repository.DocumentFilter{}, repository.PageQuery{Page: 1, Limit: 10}).
		Return(&repository.PageResult[model.Document]{Items: []model.Document{{ID: "1", UserID: "u3"}}, Total: 1}, nil).Once()
	mUsers.On("FindByID", ctx, "u3").Return(nil, errors.New("db down")).Once()

	_, err = svc.List(ctx, repository.DocumentFilter{}, repository.PageQuery{})
	assert.EqualError(t, err, "load owner: db down")
}

func TestDocumentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("malformed id never reaches the store", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		_, err := NewDocumentService(mRepo, nil, nil).UpdateStatus(ctx, "not-a-uuid", "approved")
		assert.ErrorIs(t, err, ErrInvalidID)
		mRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status never reaches the store", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		_, err := NewDocumentService(mRepo, nil, nil).UpdateStatus(ctx, id, "done")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		mRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing document", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("UpdateStatus", ctx, id, model.StatusApproved).Return(nil, repository.ErrNotFound)
		_, err := NewDocumentService(mRepo, nil, nil).UpdateStatus(ctx, id, "approved")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Document details not found", err.Error())
	})

	t.Run("updated", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("UpdateStatus", ctx, id, model.StatusRejected).Return(&model.Document{ID: id, Status: model.StatusRejected}, nil)
		doc, err := NewDocumentService(mRepo, nil, nil).UpdateStatus(ctx, id, "rejected")
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, doc.Status)
	})
}

func TestDocumentService_NotifyStatusChange(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "d1", UserID: "u1", Title: "T", Status: model.StatusApproved}

	t.Run("sends to owner", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mNotify := new(mockNotifier)
		mUsers.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Email: "a@b.com"}, nil)
		mNotify.On("Notify", ctx, notify.Notification{
			Recipient: "a@b.com", ResourceType: "Document", Title: "T", Status: model.StatusApproved,
		}).Return(nil)

		err := NewDocumentService(nil, mUsers, mNotify).NotifyStatusChange(ctx, doc)

		require.NoError(t, err)
		mNotify.AssertExpectations(t)
	})

	t.Run("owner missing", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mNotify := new(mockNotifier)
		mUsers.On("FindByID", ctx, "u1").Return(nil, repository.ErrNotFound)

		err := NewDocumentService(nil, mUsers, mNotify).NotifyStatusChange(ctx, doc)

		assert.ErrorIs(t, err, ErrNotFound)
		mNotify.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mNotify := new(mockNotifier)
		mUsers.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Email: "a@b.com"}, nil)
		mNotify.On("Notify", ctx, mock.Anything).Return(notify.ErrDeliveryFailure)

		err := NewDocumentService(nil, mUsers, mNotify).NotifyStatusChange(ctx, doc)

		assert.ErrorIs(t, err, ErrNotification)
		assert.ErrorIs(t, err, notify.ErrDeliveryFailure)
	})
}

func TestDocumentService_ListByOwner(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New().String()

	_, err := NewDocumentService(nil, nil, nil).ListByOwner(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidID)

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("ListByOwner", ctx, owner).Return([]model.Document(nil), nil)
	docs, err := NewDocumentService(mRepo, nil, nil).ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}
