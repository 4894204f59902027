package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/auth"
	"docflow/internal/checkout"
	"docflow/internal/http/middleware"
	"docflow/internal/identity"
	"docflow/internal/model"
	"docflow/internal/notify"
	"docflow/internal/repository/memory"
	"docflow/internal/service"
	"docflow/internal/validation"
)

// fakeIdP keeps accounts in memory and issues "tok-<email>" access tokens.
type fakeIdP struct {
	mu       sync.Mutex
	accounts map[string]string
}

func (f *fakeIdP) SignUp(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password
	return nil
}

func (f *fakeIdP) SignIn(_ context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return nil, &identity.APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return &identity.Session{AccessToken: "tok-" + email, RefreshToken: "ref-" + email}, nil
}

func (f *fakeIdP) Refresh(_ context.Context, refreshToken string) (*identity.Session, error) {
	email, ok := strings.CutPrefix(refreshToken, "ref-")
	if !ok {
		return nil, &identity.APIError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"}
	}
	return &identity.Session{AccessToken: "tok-" + email, RefreshToken: refreshToken}, nil
}

func (f *fakeIdP) Verify(_ context.Context, token string) (*identity.Identity, error) {
	email, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{Subject: email, Email: email}, nil
}

type outbox struct {
	mu   sync.Mutex
	fail bool
	sent []notify.Message
}

func (o *outbox) Send(_ context.Context, m notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return errors.New("smtp: 421 service not available")
	}
	o.sent = append(o.sent, m)
	return nil
}

type fakeGateway struct{ n int }

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, s checkout.Session) (string, error) {
	g.n++
	return fmt.Sprintf("cs_test_%d", g.n), nil
}

type pipeline struct {
	app   *fiber.App
	store *memory.Store
	mail  *outbox
	admin *model.User
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := memory.New()
	idp := &fakeIdP{accounts: map[string]string{"root@example.com": "root-password"}}
	mail := &outbox{}
	notifier := notify.NewEmailNotifier(mail, "noreply@docflow.test", log)

	admin, err := store.Users().Create(context.Background(), &model.User{
		ID: uuid.NewString(), Name: "Root", Email: "root@example.com", IsAdmin: true,
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS("*"))
	RegisterRoutes(app, Deps{
		Validator:     validation.New(),
		Authenticator: auth.NewAuthenticator(idp, store.Users()),
		Health:        []Pinger{store},
		Auth:          service.NewAuthService(idp, store.Users()),
		Documents:     service.NewDocumentService(store.Documents(), store.Users(), notifier),
		Payments:      service.NewPaymentService(store.Payments(), store.Users(), notifier, &fakeGateway{}),
		Users:         service.NewUserService(store.Users()),
	})
	return &pipeline{app: app, store: store, mail: mail, admin: admin}
}

func (p *pipeline) do(t *testing.T, method, target, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := p.app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestPipeline_DocumentLifecycle(t *testing.T) {
	p := newPipeline(t)

	resp, body := p.do(t, "POST", "/auth/register", "", `{"name":"Alice","email":"alice@example.com","password":"alice-password"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = p.do(t, "POST", "/auth/register", "", `{"name":"Alice","email":"alice@example.com","password":"alice-password"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(body))

	resp, body = p.do(t, "POST", "/auth/login", "", `{"email":"alice@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	resp, body = p.do(t, "POST", "/auth/login", "", `{"email":"alice@example.com","password":"alice-password"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["accessToken"].(string)
	aliceID := body["user"].(map[string]any)["id"].(string)

	resp, body = p.do(t, "POST", "/documents", token, `{"title":"Passport","fileUrl":"https://files/passport.pdf"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := body["document"].(map[string]any)
	assert.Equal(t, "pending", doc["status"])
	assert.Equal(t, aliceID, doc["userId"])

	resp, _ = p.do(t, "POST", "/documents", token, `{"title":"Passport","fileUrl":"https://files/other.pdf"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = p.do(t, "PATCH", "/documents?id="+doc["id"].(string), token, `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := "tok-" + p.admin.Email
	resp, body = p.do(t, "PATCH", "/documents?id="+doc["id"].(string), adminToken, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "approved", body["data"].(map[string]any)["status"])

	require.Len(t, p.mail.sent, 1)
	msg := p.mail.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Document Status Update: Passport", msg.Subject)
	assert.Contains(t, msg.HTML, notify.ColorApproved)

	resp, body = p.do(t, "GET", "/documents/"+aliceID, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, _ = p.do(t, "GET", "/documents/"+p.admin.ID, token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = p.do(t, "GET", "/users/"+aliceID, adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
}

func TestPipeline_NotificationFailureKeepsStatus(t *testing.T) {
	p := newPipeline(t)
	adminToken := "tok-" + p.admin.Email

	resp, body := p.do(t, "POST", "/payments", adminToken, `{"title":"Fee","amount":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["payment"].(map[string]any)["id"].(string)

	p.mail.fail = true
	resp, body = p.do(t, "PATCH", "/payments?id="+id, adminToken, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "NOTIFICATION_FAILED", errorCode(body))

	stored, err := p.store.Payments().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, stored.Status)
}

func TestPipeline_PaymentListing(t *testing.T) {
	p := newPipeline(t)
	adminToken := "tok-" + p.admin.Email

	for _, title := range []string{"foo 1", "Foo 2", "bar", "foo 3"} {
		resp, _ := p.do(t, "POST", "/payments", adminToken, fmt.Sprintf(`{"title":%q,"amount":5}`, title))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := p.do(t, "POST", "/payments", adminToken, `{"title":"neg","amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = p.do(t, "POST", "/stripe-payment", adminToken, `{"title":"huge","amount":1e300}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = p.do(t, "GET", "/payments?title=foo&page=1&limit=2", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 2)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"])

	resp, body = p.do(t, "POST", "/stripe-payment", adminToken, `{"title":"Tuition","amount":99.99}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID := body["sessionId"].(string)

	resp, body = p.do(t, "GET", "/payments/"+p.admin.ID, adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newest := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Tuition", newest["title"])
	assert.Equal(t, sessionID, newest["transactionId"])

	resp, _ = p.do(t, "DELETE", "/payments?id="+newest["id"].(string), adminToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = p.do(t, "DELETE", "/payments?id="+newest["id"].(string), adminToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPipeline_DocumentPagination(t *testing.T) {
	p := newPipeline(t)
	adminToken := "tok-" + p.admin.Email

	for i := 1; i <= 12; i++ {
		resp, _ := p.do(t, "POST", "/documents", adminToken, fmt.Sprintf(`{"title":"Report %02d","fileUrl":"https://files/%d"}`, i, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := p.do(t, "GET", "/documents?page=2&limit=5", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["data"].([]any)
	require.Len(t, items, 5)
	assert.Equal(t, "Report 06", items[0].(map[string]any)["title"])
	assert.Equal(t, p.admin.Email, items[0].(map[string]any)["ownerEmail"])
	assert.Equal(t, "Report 10", items[4].(map[string]any)["title"])
	assert.Equal(t, float64(3), body["meta"].(map[string]any)["totalPages"])

	for _, path := range []string{"/documents", "/users", "/payments"} {
		resp, body = p.do(t, "GET", path+"?page=922337203685477582", adminToken, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(body), path)
	}

	resp, body = p.do(t, "GET", "/documents?page=1000000&limit=100", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
	assert.Equal(t, float64(12), body["meta"].(map[string]any)["total"])
}

func TestPipeline_AccessControl(t *testing.T) {
	p := newPipeline(t)

	resp, body := p.do(t, "GET", "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	resp, _ = p.do(t, "GET", "/users", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid token for an identity that was never registered locally.
	resp, _ = p.do(t, "GET", "/users", "tok-stranger@example.com", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = p.do(t, "POST", "/auth/register", "", `{"name":"Bob","email":"bob@example.com","password":"bob-password"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, body = p.do(t, "GET", "/users", "tok-bob@example.com", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	resp, body = p.do(t, "GET", "/users?email=bob@example.com", "tok-"+p.admin.Email, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, _ = p.do(t, "PUT", "/payments", "tok-bob@example.com", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = p.do(t, "GET", "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = p.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	resp, body = p.do(t, "POST", "/auth/refresh-token", "", `{"refreshToken":"ref-bob@example.com"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tok-bob@example.com", body["accessToken"])
}
