package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// CheckoutSession is the gateway's answer to a checkout request: an opaque
// session identifier and the URL the customer is redirected to.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
	Currency    string
}

// Gateway creates checkout sessions at the external payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, amountMinor int64, description, bookingID string) (*CheckoutSession, error)
}

// StripeGateway implements Gateway against Stripe Checkout. The API key is
// set process-wide via stripe.Key at startup.
type StripeGateway struct {
	Currency   string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

// NewStripeGateway returns a gateway for the given currency and redirect targets.
func NewStripeGateway(currency, successURL, cancelURL string) *StripeGateway {
	return &StripeGateway{
		Currency:   currency,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Timeout:    10 * time.Second,
	}
}

// CreateCheckoutSession creates a single-payment checkout session for the
// given amount in minor currency units. The call is timeout-bounded; a
// timeout leaves the booking pending for later reconciliation.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, amountMinor int64, description, bookingID string) (*CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.Currency),
					UnitAmount: stripe.Int64(amountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(bookingID),
		SuccessURL:        stripe.String(fmt.Sprintf("%s?bookingId=%s", g.SuccessURL, bookingID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s?bookingId=%s", g.CancelURL, bookingID)),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &CheckoutSession{SessionID: s.ID, RedirectURL: s.URL, Currency: g.Currency}, nil
}
