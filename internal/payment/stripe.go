// AngelaMos | 2026
// stripe.go

package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

const statusPaid = "paid"

// Session is the slice of a checkout session the service acts on.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	CustomerEmail string
	UserID        string
	AmountTotal   int64
	Currency      string
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == statusPaid
}

type CheckoutParams struct {
	ProductName string
	Email       string
	UserID      string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, p CheckoutParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a client for secretKey. backends may be nil to
// use the default Stripe endpoints.
func NewStripeProvider(secretKey string, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, backends)}
}

func (p *StripeProvider) CreateSession(ctx context.Context, cp CheckoutParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(cp.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(cp.Currency),
				UnitAmount: stripe.Int64(cp.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(cp.ProductName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
	}
	params.Context = ctx
	if cp.UserID != "" {
		params.AddMetadata("userId", cp.UserID)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return sessionFromStripe(s), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return sessionFromStripe(s), nil
}

// sessionFromStripe prefers customer_email, which is what checkout was
// created with, and falls back to the address typed on the payment page.
func sessionFromStripe(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		CustomerEmail: s.CustomerEmail,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if s.Metadata != nil {
		out.UserID = s.Metadata["userId"]
	}
	return out
}
