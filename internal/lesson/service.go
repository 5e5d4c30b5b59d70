// AngelaMos | 2026
// service.go

package lesson

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

const (
	defaultOwnLimit  = 10
	recommendedLimit = 6
	statsCacheFamily = "lesson_stats"
	defaultMaxLimit  = 100
	defaultStatsTTL  = time.Minute
	fieldIsReviewed  = "isReviewed"
	fieldIsFeatured  = "isFeatured"
)

// CommentPurger removes the comments attached to a deleted lesson.
type CommentPurger interface {
	DeleteByLesson(ctx context.Context, lessonID string) (int64, error)
}

type ServiceConfig struct {
	MaxLimit int
	StatsTTL time.Duration
}

type Service struct {
	repo     Repository
	reports  ReportLog
	comments CommentPurger
	cache    *core.Cache
	maxLimit int
	statsTTL time.Duration
}

func NewService(
	repo Repository,
	reports ReportLog,
	comments CommentPurger,
	cache *core.Cache,
	cfg ServiceConfig,
) *Service {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = defaultStatsTTL
	}

	return &Service{
		repo:     repo,
		reports:  reports,
		comments: comments,
		cache:    cache,
		maxLimit: cfg.MaxLimit,
		statsTTL: cfg.StatsTTL,
	}
}

func (s *Service) statsKey() string {
	return s.cache.Key("lessons", "stats")
}

func (s *Service) invalidateStats(ctx context.Context) {
	s.cache.Invalidate(ctx, s.statsKey())
}

func (s *Service) ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, int64, error) {
	q.Normalize(s.maxLimit)
	return s.repo.ListPublic(ctx, q)
}

// ListOwn returns the newest lessons authored by email.
func (s *Service) ListOwn(ctx context.Context, email string, limit int) ([]Lesson, error) {
	if limit <= 0 {
		limit = defaultOwnLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.repo.ListByAuthorEmail(ctx, strings.ToLower(email), limit)
}

func (s *Service) Get(ctx context.Context, id string) (*Lesson, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, oid)
}

// Exists lets other packages check a lesson id without loading callers
// with the lesson type.
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *Service) Create(ctx context.Context, req CreateLessonRequest) (string, error) {
	req.Normalize()

	lesson := &Lesson{
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		Category:      strings.TrimSpace(req.Category),
		EmotionalTone: strings.TrimSpace(req.EmotionalTone),
		Privacy:       req.Privacy,
		AccessLevel:   req.AccessLevel,
		Author: Author{
			UserID:   req.Author.UserID,
			Name:     req.Author.Name,
			Email:    req.Author.Email,
			PhotoURL: req.Author.PhotoURL,
		},
		Likes:     []string{},
		Favorites: []string{},
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.repo.Create(ctx, lesson)
	if err != nil {
		return "", err
	}

	s.invalidateStats(ctx)
	return id.Hex(), nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateLessonRequest) (UpdateResult, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return UpdateResult{}, err
	}

	req.Normalize()
	if req.IsEmpty() {
		return UpdateResult{}, fmt.Errorf("update lesson: no fields to update: %w", core.ErrInvalidInput)
	}

	res, err := s.repo.Update(ctx, oid, req)
	if err != nil {
		return UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		return UpdateResult{}, fmt.Errorf("update lesson: %w", core.ErrNotFound)
	}

	s.invalidateStats(ctx)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, fmt.Errorf("delete lesson: %w", core.ErrNotFound)
	}

	if s.comments != nil {
		purged, err := s.comments.DeleteByLesson(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "orphaned comments left behind",
				"lesson_id", id,
				"error", err,
			)
		} else if purged > 0 {
			slog.DebugContext(ctx, "comments purged", "lesson_id", id, "count", purged)
		}
	}

	s.invalidateStats(ctx)
	return deleted, nil
}

func (s *Service) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	return s.toggle(ctx, id, SetLikes, userID)
}

func (s *Service) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	return s.toggle(ctx, id, SetFavorites, userID)
}

func (s *Service) toggle(ctx context.Context, id string, set MemberSet, userID string) (bool, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return false, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("toggle %s: userId is required: %w", set, core.ErrInvalidInput)
	}

	return s.repo.ToggleMember(ctx, oid, set, userID)
}

// Report flags the lesson and records the complaint in the report log.
// Nothing is written unless both reporter and reason are present.
func (s *Service) Report(ctx context.Context, id string, req ReportRequest) (err error) {
	ctx, span := core.StartSpan(ctx, "lesson.Report", attribute.String("lesson.id", id))
	defer func() { core.EndSpan(span, err) }()

	oid, err := core.ParseObjectID(id)
	if err != nil {
		return err
	}

	reporter := req.Reporter()
	reason := strings.TrimSpace(req.Reason)
	if reporter == "" || reason == "" {
		return fmt.Errorf("report lesson: reporter and reason are required: %w", core.ErrInvalidInput)
	}

	now := time.Now().UTC()
	matched, err := s.repo.AddReport(ctx, oid, Report{
		ReporterEmail: reporter,
		Reason:        reason,
		ReportedAt:    now,
	})
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("report lesson: %w", core.ErrNotFound)
	}

	s.invalidateStats(ctx)

	if s.reports != nil {
		logErr := s.reports.Append(ctx, &ReportLogEntry{
			LessonID:      id,
			ReporterEmail: reporter,
			Reason:        reason,
			Timestamp:     now,
		})
		if logErr != nil {
			slog.WarnContext(ctx, "report log append failed",
				"lesson_id", id,
				"error", logErr,
			)
		}
	}

	return nil
}

func (s *Service) IgnoreReports(ctx context.Context, id string) error {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return err
	}

	matched, err := s.repo.ClearReports(ctx, oid)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("ignore reports: %w", core.ErrNotFound)
	}

	s.invalidateStats(ctx)
	return nil
}

func (s *Service) ReportHistory(ctx context.Context, id string) ([]ReportLogEntry, error) {
	if _, err := core.ParseObjectID(id); err != nil {
		return nil, err
	}
	if s.reports == nil {
		return []ReportLogEntry{}, nil
	}
	return s.reports.ListByLesson(ctx, id)
}

func (s *Service) Favorites(ctx context.Context, userID string) ([]Lesson, error) {
	return s.repo.ListFavoritedBy(ctx, userID)
}

func (s *Service) ByAuthor(ctx context.Context, userID string) ([]Lesson, error) {
	return s.repo.ListByAuthorID(ctx, userID)
}

func (s *Service) Flagged(ctx context.Context) ([]Lesson, error) {
	return s.repo.ListFlagged(ctx)
}

func (s *Service) Recommended(ctx context.Context, id string) ([]Lesson, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRelated(ctx, current, recommendedLimit)
}

func (s *Service) SetReviewed(ctx context.Context, id string, value bool) (UpdateResult, error) {
	return s.setFlag(ctx, id, fieldIsReviewed, value)
}

func (s *Service) SetFeatured(ctx context.Context, id string, value bool) (UpdateResult, error) {
	return s.setFlag(ctx, id, fieldIsFeatured, value)
}

func (s *Service) setFlag(ctx context.Context, id, field string, value bool) (UpdateResult, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return UpdateResult{}, err
	}

	res, err := s.repo.SetFlag(ctx, oid, field, value)
	if err != nil {
		return UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		return UpdateResult{}, fmt.Errorf("set %s: %w", field, core.ErrNotFound)
	}

	s.invalidateStats(ctx)
	return res, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return core.Aside(ctx, s.cache, statsCacheFamily, s.statsKey(), s.statsTTL,
		func(ctx context.Context) (*Stats, error) {
			return s.repo.Stats(ctx)
		},
	)
}
