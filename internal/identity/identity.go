// Package identity talks to the external identity provider (Supabase GoTrue): sign-up,
// password sign-in, session refresh and access-token verification.
package identity

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRejected is matched by every *APIError the provider returns for a client-side failure
	// (bad credentials, unknown refresh token, sign-up refused).
	ErrRejected = errors.New("identity provider rejected the request")
	// ErrInvalidToken is returned by verifiers for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid access token")
)

// Session is a token pair issued by the provider.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Identity is the verified subject of an access token.
type Identity struct {
	Subject string
	Email   string
}

// Verifier resolves an access token to the identity it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Provider is the full identity-provider surface used by the service layer.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Verifier
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider: %d %s", e.Status, e.Message)
}

// Unwrap lets 4xx answers match ErrRejected.
func (e *APIError) Unwrap() error {
	if e.Status >= 400 && e.Status < 500 {
		return ErrRejected
	}
	return nil
}

// Verifier strategies accepted by NewVerifier.
const (
	VerifierRemote = "remote"
	VerifierHS256  = "hs256"
	VerifierJWKS   = "jwks"
)

// Audience carried by user access tokens.
const Audience = "authenticated"

// Config configures the provider client and token verification.
type Config struct {
	URL         string
	AnonKey     string
	JWTSecret   string
	Verifier    string
	RedirectURL string
}

// NewVerifier picks the token verification strategy named by cfg.Verifier.
// The remote strategy asks the provider itself and needs no local key material.
func NewVerifier(ctx context.Context, cfg Config, c *Client) (Verifier, error) {
	switch cfg.Verifier {
	case "", VerifierRemote:
		return c, nil
	case VerifierHS256:
		if cfg.JWTSecret == "" {
			return nil, errors.New("identity: hs256 verifier requires a JWT secret")
		}
		return NewHS256Verifier(cfg.JWTSecret), nil
	case VerifierJWKS:
		return NewJWKSVerifier(ctx, cfg.URL, c.HTTPClient()), nil
	default:
		return nil, fmt.Errorf("identity: unknown verifier %q", cfg.Verifier)
	}
}
