package service

import (
	"context"
	"errors"

	"docflow/internal/model"
	"docflow/internal/repository"
)

type UserService interface {
	List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*ListResult[model.User], error)

	// Get returns the user with id as a list of zero or one element.
	Get(ctx context.Context, id string) ([]model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*ListResult[model.User], error) {
	pq = pq.Normalize()
	res, err := s.repo.FindMany(ctx, f, pq)
	if err != nil {
		return nil, err
	}
	return newListResult(res, pq), nil
}

func (s *userService) Get(ctx context.Context, id string) ([]model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.User{}, nil
		}
		return nil, err
	}
	return []model.User{*u}, nil
}
