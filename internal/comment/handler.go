// AngelaMos | 2026
// handler.go

package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes expects r to be the /lessons route group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/comment", h.AddComment)
	r.Get("/{id}/comments", h.ListComments)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.Add(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		core.WriteError(w, err, "Lesson")
		return
	}

	core.OK(w, MessageResponse{Success: true, Message: "Comment added"})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, err, "Lesson")
		return
	}

	core.List(w, comments)
}
