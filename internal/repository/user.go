package repository

import (
	"context"

	"docflow/internal/model"
)

// UserRepository defines data access for users.
type UserRepository interface {
	// Create inserts a user. It returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindMany(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)
}

// UserFilter narrows FindMany. Name is a case-insensitive substring, Email is exact.
type UserFilter struct {
	Name  string
	Email string
}
