// AngelaMos | 2026
// dto.go

package payment

import "strings"

type CreateCheckoutRequest struct {
	Fee    int64  `json:"fee"    validate:"required,gt=0"`
	Name   string `json:"name"   validate:"max=200"`
	Email  string `json:"email"  validate:"required,email,max=255"`
	UserID string `json:"userId" validate:"max=128"`
}

func (r *CreateCheckoutRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UserID = strings.TrimSpace(r.UserID)
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
