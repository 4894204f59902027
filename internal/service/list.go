package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/notify"
	"docflow/internal/repository"
)

// ListResult is one page of a listing with its metadata.
type ListResult[T any] struct {
	Items []T             `json:"data"`
	Meta  repository.Meta `json:"meta"`
}

func newListResult[T any](res *repository.PageResult[T], pq repository.PageQuery) *ListResult[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{Items: items, Meta: repository.NewMeta(res.Total, pq)}
}

// ownerEmails loads the email of each distinct owner once. Owners that no longer
// exist map to "".
func ownerEmails(ctx context.Context, users repository.UserRepository, ownerIDs []string) (map[string]string, error) {
	emails := make(map[string]string, len(ownerIDs))
	for _, id := range ownerIDs {
		if _, seen := emails[id]; seen {
			continue
		}
		u, err := users.FindByID(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			emails[id] = ""
		case err != nil:
			return nil, fmt.Errorf("load owner: %w", err)
		default:
			emails[id] = u.Email
		}
	}
	return emails, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrMalformedID
	}
	return nil
}

// notifyOwner tells the owner of a resource about its new status. The status change has
// already been stored when this runs and is not undone on failure.
func notifyOwner(ctx context.Context, users repository.UserRepository, n notify.Notifier, ownerID, resourceType, title string, status model.Status) error {
	owner, err := users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load owner: %w", err)
	}
	err = n.Notify(ctx, notify.Notification{
		Recipient:    owner.Email,
		ResourceType: resourceType,
		Title:        title,
		Status:       status,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}
