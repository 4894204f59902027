package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/notify"
	"docflow/internal/repository"
)

type CreateDocumentInput struct {
	Title   string
	FileURL string
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Create stores a pending document owned by owner.
	Create(ctx context.Context, owner *model.User, in CreateDocumentInput) (*model.Document, error)

	List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*ListResult[model.Document], error)

	// UpdateStatus validates id and status, then persists the new status.
	UpdateStatus(ctx context.Context, id, status string) (*model.Document, error)

	// NotifyStatusChange emails the owner of doc about its current status.
	NotifyStatusChange(ctx context.Context, doc *model.Document) error

	// ListByOwner returns the documents of one user, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error)
}

type documentService struct {
	repo     repository.DocumentRepository
	users    repository.UserRepository
	notifier notify.Notifier
}

func NewDocumentService(repo repository.DocumentRepository, users repository.UserRepository, n notify.Notifier) DocumentService {
	return &documentService{repo: repo, users: users, notifier: n}
}

func (s *documentService) Create(ctx context.Context, owner *model.User, in CreateDocumentInput) (*model.Document, error) {
	now := time.Now().UTC()
	doc, err := s.repo.Create(ctx, &model.Document{
		ID:        uuid.New().String(),
		UserID:    owner.ID,
		Title:     in.Title,
		FileURL:   in.FileURL,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDocumentExists
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*ListResult[model.Document], error) {
	pq = pq.Normalize()
	res, err := s.repo.FindMany(ctx, f, pq)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(res.Items))
	for i, d := range res.Items {
		ids[i] = d.UserID
	}
	emails, err := ownerEmails(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		res.Items[i].OwnerEmail = emails[res.Items[i].UserID]
	}
	return newListResult(res, pq), nil
}

func (s *documentService) UpdateStatus(ctx context.Context, id, status string) (*model.Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, ErrUnknownStatus
	}
	doc, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("update document status: %w", err)
	}
	return doc, nil
}

func (s *documentService) NotifyStatusChange(ctx context.Context, doc *model.Document) error {
	return notifyOwner(ctx, s.users, s.notifier, doc.UserID, "Document", doc.Title, doc.Status)
}

func (s *documentService) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	if err := checkID(ownerID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
