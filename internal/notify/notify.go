// Package notify renders status-change emails and hands them to a mail transport.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"

	"docflow/internal/model"
)

var (
	ErrInvalidInput    = errors.New("notification is missing required fields")
	ErrDeliveryFailure = errors.New("failed to send email")
)

// Status colours used in the email body.
const (
	ColorApproved = "#4CAF50"
	ColorRejected = "#F44336"
	ColorDefault  = "#2196F3"
)

// Notification is a status change to tell an owner about.
type Notification struct {
	Recipient    string
	ResourceType string
	Title        string
	Status       model.Status
}

// Notifier delivers status-change notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Message is a rendered email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer is the outbound mail transport.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

var body = template.Must(template.New("status").Parse(`<div style="font-family: Arial, sans-serif; line-height: 1.5; color: #333;">
  <h2 style="color: {{.Color}};">{{.Type}} Status Update</h2>
  <p>Hello,</p>
  <p>The status of your <strong>{{.Type}}</strong> titled <strong>"{{.Title}}"</strong> has been changed to:</p>
  <h3 style="color: {{.Color}};">{{.Status}}</h3>
  <p>If you have any questions, feel free to contact us.</p>
  <br />
  <p>Best regards,</p>
  <p>Your Team</p>
</div>`))

// ColorFor returns the accent colour for status.
func ColorFor(s model.Status) string {
	switch s {
	case model.StatusApproved:
		return ColorApproved
	case model.StatusRejected:
		return ColorRejected
	default:
		return ColorDefault
	}
}

// EmailNotifier renders notifications as HTML email.
type EmailNotifier struct {
	mailer Mailer
	from   string
	log    logrus.FieldLogger
}

var _ Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(m Mailer, from string, log logrus.FieldLogger) *EmailNotifier {
	return &EmailNotifier{mailer: m, from: from, log: log}
}

// Render builds the message for n without sending it.
func (e *EmailNotifier) Render(n Notification) (Message, error) {
	if n.Recipient == "" || n.ResourceType == "" || n.Title == "" || n.Status == "" {
		return Message{}, ErrInvalidInput
	}
	var buf bytes.Buffer
	err := body.Execute(&buf, struct {
		Color  template.CSS
		Type   string
		Title  string
		Status string
	}{template.CSS(ColorFor(n.Status)), n.ResourceType, n.Title, n.Status.String()})
	if err != nil {
		return Message{}, fmt.Errorf("render email: %w", err)
	}
	return Message{
		From:    e.from,
		To:      n.Recipient,
		Subject: fmt.Sprintf("%s Status Update: %s", n.ResourceType, n.Title),
		HTML:    buf.String(),
	}, nil
}

func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	msg, err := e.Render(n)
	if err != nil {
		return err
	}
	if err := e.mailer.Send(ctx, msg); err != nil {
		e.log.WithError(err).WithField("to", msg.To).Error("email delivery failed")
		return fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}
	e.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("email sent")
	return nil
}
