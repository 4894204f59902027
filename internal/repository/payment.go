package repository

import (
	"context"

	"docflow/internal/model"
)

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	// Create inserts a new payment record. It returns ErrDuplicate when the owner
	// already has a payment with the same title.
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)

	FindByID(ctx context.Context, id string) (*model.Payment, error)

	// FindByOwnerTitle returns the payment with an exact title for one owner.
	FindByOwnerTitle(ctx context.Context, ownerID, title string) (*model.Payment, error)

	FindMany(ctx context.Context, f PaymentFilter, pq PageQuery) (*PageResult[model.Payment], error)

	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Payment, error)

	// Delete removes a payment by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error)
}

// PaymentFilter narrows FindMany. Zero values (and a nil Amount) are ignored.
type PaymentFilter struct {
	Title  string
	Status model.Status
	Amount *float64
}
