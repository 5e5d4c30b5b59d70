// AngelaMos | 2026
// factory.go

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/Taslimapopi/lifelog-server/internal/comment"
	"github.com/Taslimapopi/lifelog-server/internal/lesson"
	"github.com/Taslimapopi/lifelog-server/internal/user"
)

var (
	categories = []string{
		"Personal Growth", "Career", "Relationships", "Mindset", "Mistakes Learned",
	}
	tones = []string{
		"Motivational", "Sad", "Realization", "Gratitude",
	}
)

// Factory builds demo documents. A fixed seed yields the same data set.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     time.Time
}

func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		faker:   gofakeit.New(seed),
		maxDays: maxDays,
		now:     time.Now().UTC(),
	}
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.IntRange(0, f.maxDays*24*60)) * time.Minute
	return f.now.Add(-back)
}

func (f *Factory) User(role string) *user.User {
	name := f.faker.Name()
	return &user.User{
		Name:          name,
		Email:         strings.ToLower(f.faker.Username()) + "@" + f.faker.DomainName(),
		PhotoURL:      fmt.Sprintf("https://i.pravatar.cc/300?u=%s", f.faker.UUID()),
		Role:          role,
		IsUserPremium: f.faker.Bool(),
		CreatedAt:     f.pastTime(),
	}
}

// Lesson builds a lesson by author. Likes and favorites are drawn from
// members without repeats.
func (f *Factory) Lesson(author *user.User, members []string) *lesson.Lesson {
	privacy := lesson.PrivacyPublic
	if f.faker.Number(1, 5) == 1 {
		privacy = lesson.PrivacyPrivate
	}
	access := lesson.AccessFree
	if author.IsUserPremium && f.faker.Bool() {
		access = lesson.AccessPremium
	}

	return &lesson.Lesson{
		Title:         strings.TrimSuffix(f.faker.Sentence(6), "."),
		Description:   f.faker.Paragraph(2, 4, 12, "\n\n"),
		Image:         fmt.Sprintf("https://picsum.photos/seed/%s/800/500", f.faker.UUID()),
		Category:      f.faker.RandomString(categories),
		EmotionalTone: f.faker.RandomString(tones),
		Privacy:       privacy,
		AccessLevel:   access,
		Author: lesson.Author{
			UserID:   author.ID.Hex(),
			Name:     author.Name,
			Email:    author.Email,
			PhotoURL: author.PhotoURL,
		},
		Likes:     f.sample(members),
		Favorites: f.sample(members),
		CreatedAt: f.pastTime(),
	}
}

func (f *Factory) Comment(lessonID string, by *user.User) *comment.Comment {
	return &comment.Comment{
		LessonID:  lessonID,
		UserID:    by.ID.Hex(),
		UserName:  by.Name,
		Comment:   f.faker.Sentence(f.faker.Number(4, 20)),
		CreatedAt: f.pastTime(),
	}
}

func (f *Factory) sample(members []string) []string {
	if len(members) == 0 {
		return []string{}
	}
	n := f.faker.Number(0, len(members))
	shuffled := append([]string(nil), members...)
	f.faker.ShuffleStrings(shuffled)
	return shuffled[:n]
}
