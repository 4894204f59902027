package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls the provider through gotrue-go. It also verifies tokens remotely through /user.
type Client struct {
	api         gotrue.Client
	redirectURL string
	hc          *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a client for the provider at cfg.URL. A nil hc gets a traced client
// with a 10s timeout.
func NewClient(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	api := gotrue.New("", cfg.AnonKey).
		WithCustomGoTrueURL(strings.TrimRight(cfg.URL, "/") + "/auth/v1")
	return &Client{
		api:         api,
		redirectURL: cfg.RedirectURL,
		hc:          hc,
	}
}

// HTTPClient returns the client used for provider calls.
func (c *Client) HTTPClient() *http.Client { return c.hc }

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	rt := c.roundTrip(ctx)
	if c.redirectURL != "" {
		rt.query = map[string]string{"redirect_to": c.redirectURL}
	}
	_, err := c.with(rt).Signup(types.SignupRequest{Email: email, Password: password})
	return rt.fail(err)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	rt := c.roundTrip(ctx)
	res, err := c.with(rt).SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, rt.fail(err)
	}
	return &Session{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	rt := c.roundTrip(ctx)
	res, err := c.with(rt).RefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, rt.fail(err)
	}
	return &Session{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

// Verify asks the provider who the token belongs to.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	rt := c.roundTrip(ctx)
	res, err := c.with(rt).WithToken(token).GetUser()
	if err != nil {
		return nil, rt.fail(err)
	}
	if res.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: res.ID.String(), Email: res.Email}, nil
}

func (c *Client) roundTrip(ctx context.Context) *callTransport {
	base := c.hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &callTransport{ctx: ctx, base: base}
}

func (c *Client) with(rt *callTransport) gotrue.Client {
	return c.api.WithClient(http.Client{
		Transport: rt,
		Jar:       c.hc.Jar,
		Timeout:   c.hc.Timeout,
	})
}

// callTransport carries one provider call. gotrue-go builds requests without a context
// and only reports failures as text, so the transport attaches ctx and keeps the
// status and body of a non-2xx answer.
type callTransport struct {
	ctx   context.Context
	base  http.RoundTripper
	query map[string]string

	status int
	body   []byte
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	req.Header.Set("Accept", "application/json")
	if len(t.query) > 0 {
		q := req.URL.Query()
		for k, v := range t.query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 300 {
		return resp, err
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
	t.status, t.body = resp.StatusCode, b
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return resp, nil
}

// errorResponse covers the error shapes GoTrue uses across versions.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// fail turns a gotrue-go error into an *APIError when the provider answered.
func (t *callTransport) fail(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return &APIError{Status: http.StatusBadRequest, Message: "Invalid token request"}
	}
	if t.status == 0 {
		return fmt.Errorf("identity provider: %w", err)
	}
	var er errorResponse
	_ = json.Unmarshal(t.body, &er)
	msg := er.text()
	if msg == "" {
		msg = http.StatusText(t.status)
	}
	return &APIError{Status: t.status, Message: msg}
}
