// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User mirrors a document in the users collection. It is created on first
// sign-in and keyed by email.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Name          string             `bson:"name"                json:"name"`
	Email         string             `bson:"email"               json:"email"`
	PhotoURL      string             `bson:"photoURL,omitempty"  json:"photoURL,omitempty"`
	Role          string             `bson:"role"                json:"role"`
	IsUserPremium bool               `bson:"isUserPremium"       json:"isUserPremium"`
	CreatedAt     time.Time          `bson:"createdAt"           json:"createdAt"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
