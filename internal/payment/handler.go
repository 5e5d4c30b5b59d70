// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

const maxWebhookBody = 64 << 10

type Handler struct {
	service       *Service
	validator     *validator.Validate
	webhookSecret string
}

func NewHandler(service *Service, webhookSecret string) *Handler {
	return &Handler{
		service:       service,
		validator:     core.NewValidator(),
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes mounts checkout and reconciliation. The webhook route only
// exists when a signing secret is configured.
func (h *Handler) RegisterRoutes(r chi.Router, checkoutLimiter func(http.Handler) http.Handler) {
	if checkoutLimiter == nil {
		checkoutLimiter = func(next http.Handler) http.Handler { return next }
	}

	r.With(checkoutLimiter).Post("/create-checkout-session", h.CreateCheckout)
	r.Patch("/payment", h.ConfirmPayment)

	if h.webhookSecret != "" {
		r.Post("/webhooks/stripe", h.StripeWebhook)
	}
}

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	url, err := h.service.CreateCheckout(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CheckoutResponse{URL: url})
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		core.BadRequest(w, "session_id is required")
		return
	}

	paid, err := h.service.ReconcileSessionID(r.Context(), sessionID)
	if err != nil {
		core.WriteError(w, err, "Payment")
		return
	}

	if !paid {
		core.OK(w, PaymentResponse{Success: true})
		return
	}
	core.OK(w, PaymentResponse{Success: true, Message: "User is now premium!"})
}

func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		slog.WarnContext(r.Context(), "stripe webhook rejected", "error", err)
		core.BadRequest(w, "invalid signature")
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			core.BadRequest(w, "invalid event payload")
			return
		}

		if _, err := h.service.Reconcile(r.Context(), sessionFromStripe(&cs), SourceWebhook); err != nil {
			core.WriteError(w, err, "Payment")
			return
		}
	default:
		slog.DebugContext(r.Context(), "stripe webhook ignored",
			"type", string(event.Type),
			"id", event.ID,
		)
	}

	core.OK(w, WebhookResponse{Received: true})
}
