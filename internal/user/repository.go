// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, req UpdateUserRequest) (UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int64, error)
	SetPremiumByEmail(ctx context.Context, email string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{coll: db.Collection(core.CollectionUsers)}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

func (r *repository) Create(ctx context.Context, user *User) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, core.NotFoundOr("create user", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("create user: unexpected id type %T", res.InsertedID)
	}
	user.ID = id

	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, core.NotFoundOr("get user", err)
	}
	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, core.NotFoundOr("get user by email", err)
	}
	return &user, nil
}

func (r *repository) Update(
	ctx context.Context,
	id primitive.ObjectID,
	req UpdateUserRequest,
) (UpdateResult, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.PhotoURL != nil {
		set["photoURL"] = *req.PhotoURL
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.IsUserPremium != nil {
		set["isUserPremium"] = *req.IsUserPremium
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update user: %w", err)
	}

	return UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *repository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		pattern := primitive.Regex{
			Pattern: regexp.QuoteMeta(params.Search),
			Options: "i",
		}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}
	}
	if params.Role != "" {
		filter["role"] = params.Role
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(params.Skip)).
		SetLimit(int64(params.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	return users, total, nil
}

func (r *repository) SetPremiumByEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"isUserPremium": true,
			"updatedAt":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("set premium: %w", err)
	}
	return res.MatchedCount, nil
}
