// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Service struct {
	repo     Repository
	maxLimit int
}

func NewService(repo Repository, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Service{repo: repo, maxLimit: maxLimit}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, oid)
}

// Create inserts a user on first sign-in. An existing email is reported
// through CreateResult.Exists rather than as an error.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (CreateResult, error) {
	email := normalizeEmail(req.Email)

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return CreateResult{Exists: true}, nil
	case !errors.Is(err, core.ErrNotFound):
		return CreateResult{}, err
	}

	user := &User{
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		PhotoURL:      req.PhotoURL,
		Role:          RoleUser,
		IsUserPremium: false,
		CreatedAt:     time.Now().UTC(),
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent first sign-in
		if errors.Is(err, core.ErrDuplicateKey) {
			return CreateResult{Exists: true}, nil
		}
		return CreateResult{}, err
	}

	return CreateResult{InsertedID: id.Hex()}, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (UpdateResult, error) {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return UpdateResult{}, err
	}

	if req.IsEmpty() {
		return UpdateResult{}, fmt.Errorf(
			"update user: no fields to update: %w",
			core.ErrInvalidInput,
		)
	}

	res, err := s.repo.Update(ctx, oid, req)
	if err != nil {
		return UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		return UpdateResult{}, fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := core.ParseObjectID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int64, error) {
	params.Normalize(s.maxLimit)
	return s.repo.List(ctx, params)
}

// RoleByEmail backs the admin route guard.
func (s *Service) RoleByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// GrantPremium marks the user owning email as premium. It reports whether
// any user matched.
func (s *Service) GrantPremium(ctx context.Context, email string) (bool, error) {
	if normalizeEmail(email) == "" {
		return false, fmt.Errorf("grant premium: empty email: %w", core.ErrInvalidInput)
	}

	matched, err := s.repo.SetPremiumByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}
