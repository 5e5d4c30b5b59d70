// AngelaMos | 2026
// fake_test.go

package lesson

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type fakeRepo struct {
	mu         sync.Mutex
	lessons    map[primitive.ObjectID]*Lesson
	statsCalls int
}

func newFakeRepo(seed ...Lesson) *fakeRepo {
	f := &fakeRepo{lessons: make(map[primitive.ObjectID]*Lesson)}
	for i := range seed {
		l := seed[i]
		if l.ID.IsZero() {
			l.ID = primitive.NewObjectID()
		}
		l = cloneLesson(l)
		f.lessons[l.ID] = &l
	}
	return f
}

func (f *fakeRepo) get(id primitive.ObjectID) *Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.lessons[id]; ok {
		cp := cloneLesson(*l)
		return &cp
	}
	return nil
}

func cloneLesson(l Lesson) Lesson {
	l.Likes = slices.Clone(l.Likes)
	l.Favorites = slices.Clone(l.Favorites)
	l.Reports = slices.Clone(l.Reports)
	return l
}

func (f *fakeRepo) sorted(match func(*Lesson) bool) []Lesson {
	out := []Lesson{}
	for _, l := range f.lessons {
		if match(l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRepo) Create(_ context.Context, lesson *Lesson) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lesson.ID = primitive.NewObjectID()
	cp := cloneLesson(*lesson)
	f.lessons[lesson.ID] = &cp
	return lesson.ID, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*Lesson, error) {
	if l := f.get(id); l != nil {
		return l, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, id primitive.ObjectID, req UpdateLessonRequest) (UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return UpdateResult{}, nil
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&l.Title, req.Title)
	assign(&l.Description, req.Description)
	assign(&l.Image, req.Image)
	assign(&l.Category, req.Category)
	assign(&l.EmotionalTone, req.EmotionalTone)
	assign(&l.Privacy, req.Privacy)
	assign(&l.AccessLevel, req.AccessLevel)
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeRepo) SetFlag(_ context.Context, id primitive.ObjectID, field string, value bool) (UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return UpdateResult{}, nil
	}
	switch field {
	case fieldIsReviewed:
		l.IsReviewed = value
	case fieldIsFeatured:
		l.IsFeatured = value
	}
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return 0, nil
	}
	delete(f.lessons, id)
	return 1, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func (f *fakeRepo) ListPublic(_ context.Context, q PublicQuery) ([]Lesson, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.sorted(func(l *Lesson) bool {
		if !strings.EqualFold(l.Privacy, PrivacyPublic) || !strings.EqualFold(l.AccessLevel, AccessFree) {
			return false
		}
		if q.Search != "" && !containsFold(l.Title, q.Search) {
			return false
		}
		if q.Category != "" && !strings.EqualFold(q.Category, "all") && !containsFold(l.Category, q.Category) {
			return false
		}
		if q.Tone != "" && !strings.EqualFold(q.Tone, "all") && !containsFold(l.EmotionalTone, q.Tone) {
			return false
		}
		return true
	})

	switch q.Sort {
	case SortOldest:
		slices.Reverse(matched)
	case SortMostSaved:
		sort.SliceStable(matched, func(i, j int) bool {
			return len(matched[i].Favorites) > len(matched[j].Favorites)
		})
	}

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return []Lesson{}, total, nil
	}
	matched = matched[q.Skip:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (f *fakeRepo) ListByAuthorEmail(_ context.Context, email string, limit int) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(l *Lesson) bool { return l.Author.Email == email })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ListByAuthorID(_ context.Context, userID string) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l *Lesson) bool { return l.Author.UserID == userID }), nil
}

func (f *fakeRepo) ListFavoritedBy(_ context.Context, userID string) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l *Lesson) bool { return l.FavoritedBy(userID) }), nil
}

func (f *fakeRepo) ListFlagged(context.Context) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l *Lesson) bool { return l.IsFlagged }), nil
}

func (f *fakeRepo) ListRelated(_ context.Context, lesson *Lesson, limit int) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(l *Lesson) bool {
		return l.Category == lesson.Category && l.ID != lesson.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ToggleMember(_ context.Context, id primitive.ObjectID, set MemberSet, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return false, core.ErrNotFound
	}

	members := &l.Likes
	if set == SetFavorites {
		members = &l.Favorites
	}
	if i := slices.Index(*members, userID); i >= 0 {
		*members = slices.Delete(*members, i, i+1)
		return false, nil
	}
	*members = append(*members, userID)
	return true, nil
}

func (f *fakeRepo) AddReport(_ context.Context, id primitive.ObjectID, report Report) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return 0, nil
	}
	l.Reports = append(l.Reports, report)
	l.IsFlagged = true
	return 1, nil
}

func (f *fakeRepo) ClearReports(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return 0, nil
	}
	l.Reports = nil
	l.IsFlagged = false
	return 1, nil
}

func (f *fakeRepo) Stats(context.Context) (*Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++

	s := &Stats{ByCategory: map[string]int64{}}
	for _, l := range f.lessons {
		s.Total++
		if strings.EqualFold(l.Privacy, PrivacyPublic) {
			s.Public++
		} else {
			s.Private++
		}
		if strings.EqualFold(l.AccessLevel, AccessFree) {
			s.Free++
		} else {
			s.Premium++
		}
		if l.IsFlagged {
			s.Flagged++
		}
		if l.IsReviewed {
			s.Reviewed++
		}
		if l.IsFeatured {
			s.Featured++
		}
		s.ByCategory[l.Category]++
	}
	return s, nil
}

func (f *fakeRepo) EnsureIndexes(context.Context) error { return nil }

type fakeReportLog struct {
	mu      sync.Mutex
	entries []ReportLogEntry
}

func (f *fakeReportLog) Append(_ context.Context, entry *ReportLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeReportLog) ListByLesson(_ context.Context, lessonID string) ([]ReportLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []ReportLogEntry{}
	for _, e := range f.entries {
		if e.LessonID == lessonID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeReportLog) EnsureIndexes(context.Context) error { return nil }

type fakePurger struct {
	purged []string
}

func (f *fakePurger) DeleteByLesson(_ context.Context, lessonID string) (int64, error) {
	f.purged = append(f.purged, lessonID)
	return 1, nil
}
