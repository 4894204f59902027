package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docflow/docs"
	"docflow/internal/auth"
	"docflow/internal/http/middleware"
	"docflow/internal/service"
	"docflow/internal/validation"
)

// Deps are the collaborators the routes are served by.
// Metrics and Uploads are optional; their routes are skipped when nil.
type Deps struct {
	Validator     *validation.Validator
	Authenticator *auth.Authenticator
	Health        []Pinger
	Metrics       prometheus.Gatherer

	Auth      service.AuthService
	Documents service.DocumentService
	Payments  service.PaymentService
	Users     service.UserService
	Uploads   service.UploadService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Authentication is attached per route so that unknown paths still answer 404.
func RegisterRoutes(app *fiber.App, d Deps) {
	v := d.Validator
	authn := middleware.Authenticate(d.Authenticator)
	admin := middleware.RequireAdmin()

	app.Get("/health", HealthCheck(d.Health...))
	app.Get("/healthz", Liveness())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", swaggerUI)

	app.Post("/auth/register", Register(d.Auth, v))
	app.Post("/auth/login", Login(d.Auth, v))
	app.Post("/auth/refresh-token", RefreshToken(d.Auth, v))

	app.Post("/documents", authn, CreateDocument(d.Documents, v))
	app.Get("/documents", authn, admin, ListDocuments(d.Documents, v))
	app.Patch("/documents", authn, admin, UpdateDocumentStatus(d.Documents, v))
	app.Get("/documents/:userId", authn, ListUserDocuments(d.Documents))

	app.Post("/payments", authn, CreatePayment(d.Payments, v))
	app.Get("/payments", authn, admin, ListPayments(d.Payments, v))
	app.Patch("/payments", authn, admin, UpdatePaymentStatus(d.Payments, v))
	app.Delete("/payments", authn, admin, DeletePayment(d.Payments))
	app.Get("/payments/:userId", authn, ListUserPayments(d.Payments))

	app.Post("/stripe-payment", authn, StripeCheckout(d.Payments, v))

	app.Get("/users", authn, admin, ListUsers(d.Users, v))
	app.Get("/users/:userId", authn, GetUser(d.Users))

	if d.Uploads != nil {
		app.Post("/uploads", authn, UploadFile(d.Uploads))
	}
}

// swaggerUI serves the API docs with the host and scheme the request arrived on.
func swaggerUI(c *fiber.Ctx) error {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	docs.SwaggerInfo.Host = c.Get("Host")
	docs.SwaggerInfo.Schemes = []string{scheme}

	return swagger.HandlerDefault(c)
}
