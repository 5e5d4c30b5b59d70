// AngelaMos | 2026
// ids.go

package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ParseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse id %q: %w", s, ErrInvalidID)
	}
	return id, nil
}

// HashKey turns user supplied values (emails, addresses) into opaque
// fixed-length key segments for redis.
func HashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:16])
}
