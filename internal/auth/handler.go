// AngelaMos | 2026
// handler.go

package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Taslimapopi/lifelog-server/internal/core"
	"github.com/Taslimapopi/lifelog-server/internal/middleware"
	"github.com/Taslimapopi/lifelog-server/internal/user"
)

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type Handler struct {
	users UserLookup
}

func NewHandler(users UserLookup) *Handler {
	return &Handler{users: users}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.GetMe)
	})
}

// GetMe returns the stored user record for the verified token's email.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		core.Unauthorized(w, "")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		core.WriteError(w, err, "User")
		return
	}

	core.OK(w, u)
}
