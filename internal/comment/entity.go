// AngelaMos | 2026
// entity.go

package comment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	LessonID  string             `bson:"lessonId"      json:"lessonId"`
	UserID    string             `bson:"userId"        json:"userId"`
	UserName  string             `bson:"userName"      json:"userName"`
	Comment   string             `bson:"comment"       json:"comment"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
