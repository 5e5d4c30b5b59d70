// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

const defaultProductName = "LifeLog Premium"

const (
	outcomeGranted   = "granted"
	outcomeDuplicate = "duplicate"
	outcomeUnpaid    = "unpaid"
	outcomeUnmatched = "unmatched"
)

// PremiumGranter flips the premium flag on the user owning email and
// reports whether such a user exists.
type PremiumGranter interface {
	GrantPremium(ctx context.Context, email string) (bool, error)
}

type ServiceConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type Service struct {
	provider CheckoutProvider
	ledger   Repository
	users    PremiumGranter
	cfg      ServiceConfig
}

func NewService(
	provider CheckoutProvider,
	ledger Repository,
	users PremiumGranter,
	cfg ServiceConfig,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Service{
		provider: provider,
		ledger:   ledger,
		users:    users,
		cfg:      cfg,
	}
}

// CreateCheckout opens a one-item checkout session priced at fee whole
// currency units and returns the hosted page URL.
func (s *Service) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (url string, err error) {
	ctx, span := core.StartSpan(ctx, "payment.CreateCheckout",
		attribute.Int64("payment.fee", req.Fee),
	)
	defer func() { core.EndSpan(span, err) }()

	name := req.Name
	if name == "" {
		name = defaultProductName
	}

	session, err := s.provider.CreateSession(ctx, CheckoutParams{
		ProductName: name,
		Email:       req.Email,
		UserID:      req.UserID,
		AmountCents: req.Fee * 100,
		Currency:    s.cfg.Currency,
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// ReconcileSessionID fetches the session from the provider and reconciles
// it. Used by the post-checkout redirect.
func (s *Service) ReconcileSessionID(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return s.Reconcile(ctx, session, SourceRedirect)
}

// Reconcile grants premium for a paid session and records it in the
// ledger. It is safe to call any number of times for the same session; a
// session recorded before its user existed is granted again on replay. It
// reports whether the session was paid.
func (s *Service) Reconcile(ctx context.Context, session *Session, source string) (paid bool, err error) {
	ctx, span := core.StartSpan(ctx, "payment.Reconcile",
		attribute.String("payment.session_id", session.ID),
		attribute.String("payment.source", source),
	)
	defer func() { core.EndSpan(span, err) }()

	if !session.Paid() {
		core.PaymentsReconciled.WithLabelValues(source, outcomeUnpaid).Inc()
		return false, nil
	}

	email := strings.ToLower(strings.TrimSpace(session.CustomerEmail))
	if email == "" {
		return true, fmt.Errorf("reconcile %s: session has no customer email: %w",
			session.ID, core.ErrInvalidInput)
	}

	existing, err := s.ledger.GetBySession(ctx, session.ID)
	switch {
	case err == nil && existing != nil && existing.Granted:
		core.PaymentsReconciled.WithLabelValues(source, outcomeDuplicate).Inc()
		return true, nil
	case err != nil && !errors.Is(err, core.ErrNotFound):
		return true, err
	}

	matched, err := s.users.GrantPremium(ctx, email)
	if err != nil {
		return true, err
	}

	if _, err := s.ledger.Record(ctx, &Payment{
		SessionID:   session.ID,
		Email:       email,
		UserID:      session.UserID,
		AmountTotal: session.AmountTotal,
		Currency:    session.Currency,
		Source:      source,
		Granted:     matched,
		PaidAt:      time.Now().UTC(),
	}); err != nil {
		return true, err
	}

	outcome := outcomeGranted
	if !matched {
		outcome = outcomeUnmatched
		slog.WarnContext(ctx, "paid session has no matching user",
			"session_id", session.ID,
			"source", source,
		)
	}
	core.PaymentsReconciled.WithLabelValues(source, outcome).Inc()

	return true, nil
}
