// AngelaMos | 2026
// handler.go

package lesson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Taslimapopi/lifelog-server/internal/core"
	"github.com/Taslimapopi/lifelog-server/internal/middleware"
)

const resourceName = "Lesson"

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

// RegisterRoutes mounts the lesson surface. nested callbacks run inside the
// /lessons route group so sibling packages can add /lessons/{id}/... routes.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, reportLimiter func(http.Handler) http.Handler,
	nested ...func(chi.Router),
) {
	if reportLimiter == nil {
		reportLimiter = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/public-lessons", h.ListPublic)
	r.Put("/update-lessons/{id}", h.UpdateLesson)

	r.Route("/lessons", func(r chi.Router) {
		r.With(authenticator).Get("/", h.ListOwn)
		r.Post("/", h.CreateLesson)

		r.Get("/stats/all", h.GetStats)
		r.Get("/flagged", h.ListFlagged)
		r.Get("/favorites/{userId}", h.ListFavorites)
		r.Get("/user/{userId}", h.ListByAuthor)
		r.Get("/recommended/{id}", h.ListRecommended)
		r.Patch("/review/{id}", h.Review)
		r.Patch("/feature/{id}", h.Feature)

		r.Get("/{id}", h.GetLesson)
		r.Delete("/{id}", h.DeleteLesson)
		r.Patch("/{id}/toggleLike", h.ToggleLike)
		r.Patch("/{id}/toggleFavorite", h.ToggleFavorite)
		r.With(reportLimiter).Patch("/{id}/report", h.Report)
		r.With(reportLimiter).Post("/{id}/report", h.Report)
		r.Patch("/{id}/ignore-reports", h.IgnoreReports)
		r.Get("/{id}/reports", h.ReportHistory)

		for _, register := range nested {
			register(r)
		}
	})
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := PublicQuery{
		Limit:    parseIntQuery(r, "limit", 0),
		Skip:     parseIntQuery(r, "skip", 0),
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Tone:     q.Get("tone"),
	}

	lessons, total, err := h.service.ListPublic(r.Context(), query)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, lessons, total)
}

// ListOwn serves the caller's own lessons. Asking for someone else's email
// is refused rather than silently rewritten.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		core.Unauthorized(w, "")
		return
	}

	if requested := r.URL.Query().Get("email"); requested != "" &&
		!strings.EqualFold(requested, email) {
		core.Forbidden(w, "")
		return
	}

	lessons, err := h.service.ListOwn(r.Context(), email, parseIntQuery(r, "limit", 0))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, lessons)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	core.OK(w, lesson)
}

func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req CreateLessonRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, core.InsertResponse{Acknowledged: true, InsertedID: id})
}

func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req UpdateLessonRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeUpdate(w, res)
}

func (h *Handler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	core.OK(w, DeleteLessonResponse{
		Message: "Lesson deleted successfully",
		Result:  DeleteCountField{DeletedCount: deleted},
	})
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, SetLikes)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, SetFavorites)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, set MemberSet) {
	var req ToggleRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "id")

	var (
		present bool
		err     error
	)
	if set == SetLikes {
		present, err = h.service.ToggleLike(r.Context(), id, req.UserID)
	} else {
		present, err = h.service.ToggleFavorite(r.Context(), id, req.UserID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := ToggleResponse{Success: true}
	if set == SetLikes {
		resp.Liked = &present
	} else {
		resp.Favorited = &present
	}
	core.OK(w, resp)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Reporter() == "" && middleware.IsAuthenticated(r.Context()) {
		req.ReporterEmail = middleware.GetUserEmail(r.Context())
	}

	if err := h.service.Report(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "reporterEmail and reason are required")
			return
		}
		core.WriteError(w, err, resourceName)
		return
	}

	core.OK(w, MessageResponse{Success: true, Message: "Report submitted"})
}

func (h *Handler) IgnoreReports(w http.ResponseWriter, r *http.Request) {
	if err := h.service.IgnoreReports(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	core.OK(w, MessageResponse{Success: true, Message: "Reports cleared"})
}

func (h *Handler) ReportHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ReportHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	core.List(w, entries)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.Favorites(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, lessons)
}

func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.ByAuthor(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, lessons)
}

func (h *Handler) ListFlagged(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.Flagged(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, lessons)
}

func (h *Handler) ListRecommended(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.Recommended(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	core.List(w, lessons)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	value := true
	if req.IsReviewed != nil {
		value = *req.IsReviewed
	}

	res, err := h.service.SetReviewed(r.Context(), chi.URLParam(r, "id"), value)
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	writeUpdate(w, res)
}

func (h *Handler) Feature(w http.ResponseWriter, r *http.Request) {
	var req FeatureRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	value := true
	if req.IsFeatured != nil {
		value = *req.IsFeatured
	}

	res, err := h.service.SetFeatured(r.Context(), chi.URLParam(r, "id"), value)
	if err != nil {
		core.WriteError(w, err, resourceName)
		return
	}

	writeUpdate(w, res)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidInput) && !errors.Is(err, core.ErrInvalidID) {
		core.BadRequest(w, strings.TrimSuffix(err.Error(), ": "+core.ErrInvalidInput.Error()))
		return
	}
	core.WriteError(w, err, resourceName)
}

func writeUpdate(w http.ResponseWriter, res UpdateResult) {
	core.OK(w, core.UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	})
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
