// Package auth resolves bearer tokens to local users and gates admin routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docflow/internal/identity"
	"docflow/internal/model"
	"docflow/internal/repository"
)

var (
	ErrTokenMissing = errors.New("authorization token is missing")
	ErrTokenInvalid = errors.New("authorization token is invalid")
	// ErrUnknownPrincipal means the token verified but no local user carries its email.
	ErrUnknownPrincipal = errors.New("no user registered for this identity")
	ErrForbidden        = errors.New("admin access required")
)

// Authenticator maps an Authorization header to a local user.
type Authenticator struct {
	verifier identity.Verifier
	users    repository.UserRepository
}

func NewAuthenticator(v identity.Verifier, users repository.UserRepository) *Authenticator {
	return &Authenticator{verifier: v, users: users}
}

// Authenticate extracts the token after the first space of header, verifies it and loads the
// user it was issued for.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*model.User, error) {
	token := TokenFromHeader(header)
	if token == "" {
		return nil, ErrTokenMissing
	}

	id, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if id == nil || id.Email == "" {
		return nil, ErrTokenInvalid
	}

	user, err := a.users.FindByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}
	return user, nil
}

// TokenFromHeader returns the part of header after its first space, trimmed.
func TokenFromHeader(header string) string {
	_, token, ok := strings.Cut(header, " ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authorize passes when user may use a route that does or does not require admin rights.
func Authorize(user *model.User, requiresAdmin bool) error {
	if user == nil {
		return ErrTokenMissing
	}
	if requiresAdmin && !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner passes for the owner of a resource or any admin.
func AuthorizeOwner(user *model.User, ownerID string) error {
	if err := Authorize(user, false); err != nil {
		return err
	}
	if user.ID != ownerID && !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying user.
func WithPrincipal(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFrom returns the user stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*model.User)
	return u, ok && u != nil
}
