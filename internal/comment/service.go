// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"time"
)

// LessonChecker reports core.ErrNotFound for a lesson that does not exist
// and core.ErrInvalidID for a malformed id.
type LessonChecker interface {
	Exists(ctx context.Context, id string) error
}

type Service struct {
	repo    Repository
	lessons LessonChecker
}

func NewService(repo Repository, lessons LessonChecker) *Service {
	return &Service{repo: repo, lessons: lessons}
}

func (s *Service) Add(ctx context.Context, lessonID string, req CreateCommentRequest) (*Comment, error) {
	if err := s.lessons.Exists(ctx, lessonID); err != nil {
		return nil, err
	}

	c := &Comment{
		LessonID:  lessonID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, lessonID string) ([]Comment, error) {
	if err := s.lessons.Exists(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.repo.ListByLesson(ctx, lessonID)
}
