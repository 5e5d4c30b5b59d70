// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*User

	createErr error
}

func newFakeRepo(seed ...User) *fakeRepo {
	f := &fakeRepo{users: make(map[primitive.ObjectID]*User)}
	for i := range seed {
		u := seed[i]
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fakeRepo) Create(_ context.Context, user *User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, core.ErrDuplicateKey
		}
	}

	user.ID = primitive.NewObjectID()
	stored := *user
	f.users[user.ID] = &stored
	return user.ID, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(
	_ context.Context,
	id primitive.ObjectID,
	req UpdateUserRequest,
) (UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return UpdateResult{}, nil
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.PhotoURL != nil {
		u.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsUserPremium != nil {
		u.IsUserPremium = *req.IsUserPremium
	}
	now := time.Now()
	u.UpdatedAt = &now
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return 0, nil
	}
	delete(f.users, id)
	return 1, nil
}

func (f *fakeRepo) List(_ context.Context, params ListUsersParams) ([]User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []User
	for _, u := range f.users {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.Search != "" {
			s := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) &&
				!strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		matched = append(matched, *u)
	}

	total := int64(len(matched))
	if params.Skip >= len(matched) {
		return []User{}, total, nil
	}
	matched = matched[params.Skip:]
	if len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func (f *fakeRepo) SetPremiumByEmail(_ context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			u.IsUserPremium = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRepo) EnsureIndexes(context.Context) error { return nil }
