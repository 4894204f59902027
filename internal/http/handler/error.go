package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"docflow/internal/auth"
	"docflow/internal/http/middleware"
	"docflow/internal/service"
	"docflow/internal/validation"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// apiError is a failure detected by a handler itself, before any service call.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func badRequest(code, message string) error {
	return &apiError{Status: fiber.StatusBadRequest, Code: code, Message: message}
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string, details ...validation.FieldError) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// classify maps an error from any layer to its response status, code and safe message.
func classify(err error) (int, string, string) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Message
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusBadRequest:
			return fe.Code, "BAD_REQUEST", "bad request"
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND", "resource not found"
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED", "method not allowed"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, "PAYLOAD_TOO_LARGE", "request body too large"
		}
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}

	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized, token missing"
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrUnknownPrincipal):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized, invalid token"
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "Forbidden, you are not an admin"
	}

	msg := func(fallback string) string {
		var se *service.Error
		if errors.As(err, &se) {
			return se.Message
		}
		return fallback
	}
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return fiber.StatusBadRequest, "INVALID_ID", msg("Invalid ID")
	case errors.Is(err, service.ErrInvalidStatus):
		return fiber.StatusBadRequest, "INVALID_STATUS", msg("Invalid status value")
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusBadRequest, "DUPLICATE", msg("resource already exists")
	case errors.Is(err, service.ErrRegistration):
		return fiber.StatusBadRequest, "REGISTRATION_FAILED", msg("registration failed")
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", msg("unauthorized")
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", msg("resource not found")
	case errors.Is(err, service.ErrNotification):
		return fiber.StatusInternalServerError, "NOTIFICATION_FAILED", msg("notification failed")
	case errors.Is(err, service.ErrUpstream):
		return fiber.StatusInternalServerError, "UPSTREAM_FAILURE", "upstream service failure"
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Unclassified errors are logged and answered with a generic 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *validation.Errors
		if errors.As(err, &ve) {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", ve.Error(), ve.Fields...)
		}

		status, code, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"request_id": requestIDFromCtx(c),
				"method":     c.Method(),
				"path":       c.Path(),
				"code":       code,
			}).WithError(err).Error("request_failed")
		}
		return writeError(c, status, code, message)
	}
}
