// AngelaMos | 2026
// entity.go

package lesson

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"

	AccessFree    = "free"
	AccessPremium = "premium"
)

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortMostSaved = "mostSaved"
)

type Author struct {
	UserID   string `bson:"userId,omitempty"   json:"userId,omitempty"`
	Name     string `bson:"name,omitempty"     json:"name,omitempty"`
	Email    string `bson:"email"              json:"email"`
	PhotoURL string `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
}

// Report is a complaint embedded in the lesson it targets.
type Report struct {
	ReporterEmail string    `bson:"reporterEmail" json:"reporterEmail"`
	Reason        string    `bson:"reason"        json:"reason"`
	ReportedAt    time.Time `bson:"reportedAt"    json:"reportedAt"`
}

// Lesson is a document in the lessons collection. IsFlagged is kept equal
// to len(Reports) > 0 by the report and ignore operations.
type Lesson struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Title         string             `bson:"title"               json:"title"`
	Description   string             `bson:"description"         json:"description"`
	Image         string             `bson:"image,omitempty"     json:"image,omitempty"`
	Category      string             `bson:"category"            json:"category"`
	EmotionalTone string             `bson:"emotionalTone"       json:"emotionalTone"`
	Privacy       string             `bson:"privacy"             json:"privacy"`
	AccessLevel   string             `bson:"accessLevel"         json:"accessLevel"`
	Author        Author             `bson:"author"              json:"author"`
	Likes         []string           `bson:"likes"               json:"likes"`
	Favorites     []string           `bson:"favorites"           json:"favorites"`
	IsFlagged     bool               `bson:"isFlagged"           json:"isFlagged"`
	Reports       []Report           `bson:"reports,omitempty"   json:"reports,omitempty"`
	IsReviewed    bool               `bson:"isReviewed"          json:"isReviewed"`
	IsFeatured    bool               `bson:"isFeatured"          json:"isFeatured"`
	CreatedAt     time.Time          `bson:"createdAt"           json:"createdAt"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (l *Lesson) LikedBy(userID string) bool {
	return slices.Contains(l.Likes, userID)
}

func (l *Lesson) FavoritedBy(userID string) bool {
	return slices.Contains(l.Favorites, userID)
}

// ReportLogEntry is the append-only audit record kept in lessonReports.
type ReportLogEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	LessonID      string             `bson:"lessonId"      json:"lessonId"`
	ReporterEmail string             `bson:"reporterEmail" json:"reporterEmail"`
	Reason        string             `bson:"reason"        json:"reason"`
	Timestamp     time.Time          `bson:"timestamp"     json:"timestamp"`
}

type Stats struct {
	Total      int64            `bson:"total"      json:"total"`
	Public     int64            `bson:"public"     json:"public"`
	Private    int64            `bson:"private"    json:"private"`
	Free       int64            `bson:"free"       json:"free"`
	Premium    int64            `bson:"premium"    json:"premium"`
	Flagged    int64            `bson:"flagged"    json:"flagged"`
	Reviewed   int64            `bson:"reviewed"   json:"reviewed"`
	Featured   int64            `bson:"featured"   json:"featured"`
	ByCategory map[string]int64 `bson:"byCategory" json:"byCategory"`
}

// MemberSet names an array field with set semantics.
type MemberSet string

const (
	SetLikes     MemberSet = "likes"
	SetFavorites MemberSet = "favorites"
)
