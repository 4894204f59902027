package service

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidStatus = errors.New("invalid status")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRegistration  = errors.New("registration failed")
	ErrNotification  = errors.New("notification failed")
	ErrUpstream      = errors.New("upstream failure")
	ErrReaderNil     = errors.New("reader is nil")
)

// Error is a user-facing failure of a known kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrUserExists         = newError(ErrConflict, "User already exists")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrDocumentExists     = newError(ErrConflict, "Document already exists with the same title")
	ErrDocumentNotFound   = newError(ErrNotFound, "Document details not found")
	ErrPaymentExists      = newError(ErrConflict, "Payment already exists with the same title")
	ErrPaymentNotFound    = newError(ErrNotFound, "Payment details not found")
	ErrMalformedID        = newError(ErrInvalidID, "Invalid ID")
	ErrUnknownStatus      = newError(ErrInvalidStatus, "Invalid status value")
	ErrNotificationFailed = newError(ErrNotification, "Status updated but the notification email could not be sent")
)
