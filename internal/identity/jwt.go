package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HS256Verifier checks tokens locally against the project's shared JWT secret.
type HS256Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHS256Verifier(secret string) *HS256Verifier {
	return &HS256Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(Audience),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *HS256Verifier) Verify(_ context.Context, token string) (*Identity, error) {
	var c claims
	_, err := v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: c.Subject, Email: c.Email}, nil
}

// JWKSVerifier checks asymmetric tokens against the provider's published key set.
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewJWKSVerifier(ctx context.Context, baseURL string, hc *http.Client) *JWKSVerifier {
	base := strings.TrimRight(baseURL, "/")
	if hc != nil {
		ctx = oidc.ClientContext(ctx, hc)
	}
	keys := oidc.NewRemoteKeySet(ctx, base+"/auth/v1/.well-known/jwks.json")
	return &JWKSVerifier{
		verifier: oidc.NewVerifier(base+"/auth/v1", keys, &oidc.Config{ClientID: Audience}),
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	idt, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var c struct {
		Email string `json:"email"`
	}
	if err := idt.Claims(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: idt.Subject, Email: c.Email}, nil
}
