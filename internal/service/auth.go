package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docflow/internal/identity"
	"docflow/internal/model"
	"docflow/internal/repository"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is a signed-in user with its token pair.
type LoginResult struct {
	User    *model.User
	Session *identity.Session
}

// AuthService registers users with the identity provider and mirrors them locally.
type AuthService interface {
	// Register signs the user up with the identity provider, then stores the local user record.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	Login(ctx context.Context, email, password string) (*LoginResult, error)

	Refresh(ctx context.Context, refreshToken string) (*identity.Session, error)
}

type authService struct {
	idp   identity.Provider
	users repository.UserRepository
}

func NewAuthService(idp identity.Provider, users repository.UserRepository) AuthService {
	return &authService{idp: idp, users: users}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.idp.SignUp(ctx, in.Email, in.Password); err != nil {
		return nil, providerError(err, ErrRegistration)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &model.User{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	sess, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return nil, providerError(err, ErrUnauthorized)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrUnauthorized, "No user registered for this email")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &LoginResult{User: user, Session: sess}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	sess, err := s.idp.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, providerError(err, ErrUnauthorized)
	}
	return sess, nil
}

// providerError turns a provider rejection into an Error of kind, keeping the provider's message.
// Transport and server failures become ErrUpstream.
func providerError(err error, kind error) error {
	var apiErr *identity.APIError
	if errors.As(err, &apiErr) && errors.Is(err, identity.ErrRejected) {
		return newError(kind, apiErr.Message)
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
