// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Repository interface {
	// Record inserts p unless a row for p.SessionID already exists. It
	// reports whether a new row was written. An existing row only ever
	// moves granted from false to true.
	Record(ctx context.Context, p *Payment) (bool, error)
	GetBySession(ctx context.Context, sessionID string) (*Payment, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{coll: db.Collection(core.CollectionPayments)}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "paidAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("payment indexes: %w", err)
	}
	return nil
}

func (r *repository) Record(ctx context.Context, p *Payment) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"sessionId": p.SessionID},
		recordUpdate(p),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// two concurrent upserts on a unique key: the loser sees E11000
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("record payment: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

func recordUpdate(p *Payment) bson.M {
	return bson.M{
		"$setOnInsert": bson.M{
			"sessionId":   p.SessionID,
			"email":       p.Email,
			"userId":      p.UserID,
			"amountTotal": p.AmountTotal,
			"currency":    p.Currency,
			"source":      p.Source,
			"paidAt":      p.PaidAt,
		},
		"$max": bson.M{"granted": p.Granted},
	}
}

func (r *repository) GetBySession(ctx context.Context, sessionID string) (*Payment, error) {
	var p Payment
	if err := r.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&p); err != nil {
		return nil, core.NotFoundOr("get payment", err)
	}
	return &p, nil
}
