package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docflow/internal/checkout"
	"docflow/internal/model"
	"docflow/internal/notify"
	"docflow/internal/repository"
)

type CreatePaymentInput struct {
	Title  string
	Amount float64
}

// PaymentService defines the use cases for payments, including hosted checkout.
type PaymentService interface {
	Create(ctx context.Context, owner *model.User, in CreatePaymentInput) (*model.Payment, error)

	// Checkout opens a checkout session for a new payment and records the payment against it.
	// It returns the session id.
	Checkout(ctx context.Context, owner *model.User, in CreatePaymentInput) (string, error)

	List(ctx context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*ListResult[model.Payment], error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Payment, error)
	NotifyStatusChange(ctx context.Context, p *model.Payment) error

	// Delete removes a payment. Deleting a missing payment succeeds.
	Delete(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error)
}

type paymentService struct {
	repo     repository.PaymentRepository
	users    repository.UserRepository
	notifier notify.Notifier
	gateway  checkout.Gateway
}

func NewPaymentService(repo repository.PaymentRepository, users repository.UserRepository, n notify.Notifier, gw checkout.Gateway) PaymentService {
	return &paymentService{repo: repo, users: users, notifier: n, gateway: gw}
}

func (s *paymentService) Create(ctx context.Context, owner *model.User, in CreatePaymentInput) (*model.Payment, error) {
	return s.insert(ctx, owner, in, "")
}

func (s *paymentService) Checkout(ctx context.Context, owner *model.User, in CreatePaymentInput) (string, error) {
	// Refuse before a session is opened for a title that is already taken.
	if _, err := s.repo.FindByOwnerTitle(ctx, owner.ID, in.Title); err == nil {
		return "", ErrPaymentExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup payment: %w", err)
	}

	sessionID, err := s.gateway.CreateCheckoutSession(ctx, checkout.Session{Title: in.Title, Amount: in.Amount})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if _, err := s.insert(ctx, owner, in, sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *paymentService) insert(ctx context.Context, owner *model.User, in CreatePaymentInput, transactionID string) (*model.Payment, error) {
	now := time.Now().UTC()
	p, err := s.repo.Create(ctx, &model.Payment{
		ID:            uuid.New().String(),
		UserID:        owner.ID,
		Title:         in.Title,
		Amount:        in.Amount,
		Status:        model.StatusPending,
		TransactionID: transactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPaymentExists
		}
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return p, nil
}

func (s *paymentService) List(ctx context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*ListResult[model.Payment], error) {
	pq = pq.Normalize()
	res, err := s.repo.FindMany(ctx, f, pq)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(res.Items))
	for i, p := range res.Items {
		ids[i] = p.UserID
	}
	emails, err := ownerEmails(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		res.Items[i].OwnerEmail = emails[res.Items[i].UserID]
	}
	return newListResult(res, pq), nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, id, status string) (*model.Payment, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, ErrUnknownStatus
	}
	p, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return p, nil
}

func (s *paymentService) NotifyStatusChange(ctx context.Context, p *model.Payment) error {
	return notifyOwner(ctx, s.users, s.notifier, p.UserID, "Payment", p.Title, p.Status)
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *paymentService) ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error) {
	if err := checkID(ownerID); err != nil {
		return nil, err
	}
	ps, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []model.Payment{}
	}
	return ps, nil
}
