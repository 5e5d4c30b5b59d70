// AngelaMos | 2026
// dto.go

package user

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	PhotoURL string `json:"photoURL" validate:"max=2048"`
}

// UpdateUserRequest is a partial admin edit; nil fields are left alone.
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	PhotoURL      *string `json:"photoURL,omitempty"      validate:"omitempty,max=2048"`
	Role          *string `json:"role,omitempty"          validate:"omitempty,oneof=user admin"`
	IsUserPremium *bool   `json:"isUserPremium,omitempty"`
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.PhotoURL == nil &&
		r.Role == nil && r.IsUserPremium == nil
}

type ListUsersParams struct {
	Search string
	Role   string
	Limit  int
	Skip   int
}

func (p *ListUsersParams) Normalize(maxLimit int) {
	if p.Limit <= 0 || p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

type CreateResult struct {
	Exists     bool
	InsertedID string
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}
