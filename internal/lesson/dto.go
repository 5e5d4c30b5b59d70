// AngelaMos | 2026
// dto.go

package lesson

import (
	"strings"
)

type AuthorInput struct {
	UserID   string `json:"userId"   validate:"max=128"`
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	PhotoURL string `json:"photoURL" validate:"max=2048"`
}

type CreateLessonRequest struct {
	Title         string      `json:"title"         validate:"required,max=200"`
	Description   string      `json:"description"   validate:"required,max=20000"`
	Image         string      `json:"image"         validate:"max=2048"`
	Category      string      `json:"category"      validate:"required,max=100"`
	EmotionalTone string      `json:"emotionalTone" validate:"required,max=100"`
	Privacy       string      `json:"privacy"       validate:"omitempty,oneof=public private"`
	AccessLevel   string      `json:"accessLevel"   validate:"omitempty,oneof=free premium"`
	Author        AuthorInput `json:"author"`
}

// Normalize lowercases enum fields and fills their defaults.
func (r *CreateLessonRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Privacy = strings.ToLower(strings.TrimSpace(r.Privacy))
	r.AccessLevel = strings.ToLower(strings.TrimSpace(r.AccessLevel))
	r.Author.Email = strings.ToLower(strings.TrimSpace(r.Author.Email))

	if r.Privacy == "" {
		r.Privacy = PrivacyPublic
	}
	if r.AccessLevel == "" {
		r.AccessLevel = AccessFree
	}
}

type UpdateLessonRequest struct {
	Title         *string `json:"title,omitempty"         validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description,omitempty"   validate:"omitempty,min=1,max=20000"`
	Image         *string `json:"image,omitempty"         validate:"omitempty,max=2048"`
	Category      *string `json:"category,omitempty"      validate:"omitempty,min=1,max=100"`
	EmotionalTone *string `json:"emotionalTone,omitempty" validate:"omitempty,min=1,max=100"`
	Privacy       *string `json:"privacy,omitempty"       validate:"omitempty,oneof=public private"`
	AccessLevel   *string `json:"accessLevel,omitempty"   validate:"omitempty,oneof=free premium"`
}

func (r *UpdateLessonRequest) Normalize() {
	lower := func(p *string) {
		if p != nil {
			*p = strings.ToLower(strings.TrimSpace(*p))
		}
	}
	lower(r.Privacy)
	lower(r.AccessLevel)
}

func (r UpdateLessonRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Image == nil &&
		r.Category == nil && r.EmotionalTone == nil &&
		r.Privacy == nil && r.AccessLevel == nil
}

type ToggleRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
}

// ReportRequest accepts the reporter under either key; older clients send
// "email".
type ReportRequest struct {
	ReporterEmail string `json:"reporterEmail" validate:"omitempty,email"`
	Email         string `json:"email"         validate:"omitempty,email"`
	Reason        string `json:"reason"        validate:"max=1000"`
}

func (r ReportRequest) Reporter() string {
	if r.ReporterEmail != "" {
		return strings.ToLower(strings.TrimSpace(r.ReporterEmail))
	}
	return strings.ToLower(strings.TrimSpace(r.Email))
}

type ReviewRequest struct {
	IsReviewed *bool `json:"isReviewed"`
}

type FeatureRequest struct {
	IsFeatured *bool `json:"isFeatured"`
}

// PublicQuery holds the catalog query string after parsing.
type PublicQuery struct {
	Limit    int
	Skip     int
	Sort     string
	Search   string
	Category string
	Tone     string
}

func (q *PublicQuery) Normalize(maxLimit int) {
	if q.Limit <= 0 || q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	switch q.Sort {
	case SortNewest, SortOldest, SortMostSaved:
	default:
		q.Sort = SortNewest
	}
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

type ToggleResponse struct {
	Success   bool  `json:"success"`
	Liked     *bool `json:"liked,omitempty"`
	Favorited *bool `json:"favorited,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type DeleteLessonResponse struct {
	Message string           `json:"message"`
	Result  DeleteCountField `json:"result"`
}

type DeleteCountField struct {
	DeletedCount int64 `json:"deletedCount"`
}
