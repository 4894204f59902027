// Package checkout opens hosted payment sessions with the payment processor.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// MaxAmount is the largest single charge Stripe accepts, in major units.
const MaxAmount = 999999.99

var (
	// ErrGateway wraps every failure reported by the processor.
	ErrGateway = errors.New("payment gateway failure")
	// ErrAmountOutOfRange is returned for amounts outside [0, MaxAmount].
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// Session describes a single-item checkout.
type Session struct {
	Title  string
	Amount float64
}

// Gateway creates checkout sessions and returns their id.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, s Session) (string, error)
}

// Config configures the Stripe gateway.
type Config struct {
	SecretKey string
	Currency  string
	// PublicURL is where the processor sends the customer back to.
	PublicURL string
	// Backends overrides the Stripe API endpoint. Nil uses the live API.
	Backends *stripe.Backends
}

// Stripe is a Gateway backed by Stripe Checkout.
type Stripe struct {
	sc         *client.API
	currency   string
	successURL string
	cancelURL  string
}

var _ Gateway = (*Stripe)(nil)

func NewStripe(cfg Config) *Stripe {
	currency := cfg.Currency
	if currency == "" {
		currency = "bdt"
	}
	base := strings.TrimRight(cfg.PublicURL, "/") + "/user-dashboard?session_id={CHECKOUT_SESSION_ID}"
	return &Stripe{
		sc:         client.New(cfg.SecretKey, cfg.Backends),
		currency:   strings.ToLower(currency),
		successURL: base + "&success=true",
		cancelURL:  base + "&success=false",
	}
}

// UnitAmount converts a major-unit amount to the smallest currency unit.
func UnitAmount(amount float64) (int64, error) {
	if math.IsNaN(amount) || amount < 0 || amount > MaxAmount {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}
	return int64(math.Round(amount * 100)), nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, in Session) (string, error) {
	unit, err := UnitAmount(in.Amount)
	if err != nil {
		return "", err
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(s.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(in.Title),
				},
				UnitAmount: stripe.Int64(unit),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx

	cs, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return cs.ID, nil
}
