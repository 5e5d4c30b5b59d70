// AngelaMos | 2026
// repository.go

package comment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) (primitive.ObjectID, error)
	ListByLesson(ctx context.Context, lessonID string) ([]Comment, error)
	DeleteByLesson(ctx context.Context, lessonID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{coll: db.Collection(core.CollectionComments)}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "lessonId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("comment indexes: %w", err)
	}
	return nil
}

func (r *repository) Create(ctx context.Context, c *Comment) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert comment: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	c.ID = id
	return id, nil
}

func (r *repository) ListByLesson(ctx context.Context, lessonID string) ([]Comment, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"lessonId": lessonID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := []Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *repository) DeleteByLesson(ctx context.Context, lessonID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"lessonId": lessonID})
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return res.DeletedCount, nil
}
