// AngelaMos | 2026
// entity.go

package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SourceRedirect = "redirect"
	SourceWebhook  = "webhook"
)

// Payment is a ledger row in the payments collection, one per checkout
// session. Granted records whether premium reached a user account.
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SessionID   string             `bson:"sessionId"     json:"sessionId"`
	Email       string             `bson:"email"         json:"email"`
	UserID      string             `bson:"userId"        json:"userId,omitempty"`
	AmountTotal int64              `bson:"amountTotal"   json:"amountTotal"`
	Currency    string             `bson:"currency"      json:"currency"`
	Source      string             `bson:"source"        json:"source"`
	Granted     bool               `bson:"granted"       json:"granted"`
	PaidAt      time.Time          `bson:"paidAt"        json:"paidAt"`
}
