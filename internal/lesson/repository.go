// AngelaMos | 2026
// repository.go

package lesson

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type Repository interface {
	Create(ctx context.Context, lesson *Lesson) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Lesson, error)
	Update(ctx context.Context, id primitive.ObjectID, req UpdateLessonRequest) (UpdateResult, error)
	SetFlag(ctx context.Context, id primitive.ObjectID, field string, value bool) (UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, int64, error)
	ListByAuthorEmail(ctx context.Context, email string, limit int) ([]Lesson, error)
	ListByAuthorID(ctx context.Context, userID string) ([]Lesson, error)
	ListFavoritedBy(ctx context.Context, userID string) ([]Lesson, error)
	ListFlagged(ctx context.Context) ([]Lesson, error)
	ListRelated(ctx context.Context, lesson *Lesson, limit int) ([]Lesson, error)

	ToggleMember(ctx context.Context, id primitive.ObjectID, set MemberSet, userID string) (bool, error)
	AddReport(ctx context.Context, id primitive.ObjectID, report Report) (int64, error)
	ClearReports(ctx context.Context, id primitive.ObjectID) (int64, error)

	Stats(ctx context.Context) (*Stats, error)
	EnsureIndexes(ctx context.Context) error
}

// ReportLog is the append-only lessonReports collection.
type ReportLog interface {
	Append(ctx context.Context, entry *ReportLogEntry) error
	ListByLesson(ctx context.Context, lessonID string) ([]ReportLogEntry, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{coll: db.Collection(core.CollectionLessons)}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "privacy", Value: 1},
				{Key: "accessLevel", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("catalog"),
		},
		{
			Keys:    bson.D{{Key: "author.email", Value: 1}},
			Options: options.Index().SetName("author_email"),
		},
		{
			Keys:    bson.D{{Key: "author.userId", Value: 1}},
			Options: options.Index().SetName("author_user_id"),
		},
		{
			Keys:    bson.D{{Key: "favorites", Value: 1}},
			Options: options.Index().SetName("favorites"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys: bson.D{{Key: "isFlagged", Value: 1}},
			Options: options.Index().
				SetName("flagged").
				SetPartialFilterExpression(bson.M{"isFlagged": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure lesson indexes: %w", err)
	}
	return nil
}

func (r *repository) Create(ctx context.Context, lesson *Lesson) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, lesson)
	if err != nil {
		return primitive.NilObjectID, core.NotFoundOr("create lesson", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("create lesson: unexpected id type %T", res.InsertedID)
	}
	lesson.ID = id

	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Lesson, error) {
	var lesson Lesson
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson); err != nil {
		return nil, core.NotFoundOr("get lesson", err)
	}
	return &lesson, nil
}

func (r *repository) Update(
	ctx context.Context,
	id primitive.ObjectID,
	req UpdateLessonRequest,
) (UpdateResult, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	fields := map[string]*string{
		"title":         req.Title,
		"description":   req.Description,
		"image":         req.Image,
		"category":      req.Category,
		"emotionalTone": req.EmotionalTone,
		"privacy":       req.Privacy,
		"accessLevel":   req.AccessLevel,
	}
	for name, value := range fields {
		if value != nil {
			set[name] = *value
		}
	}

	return r.updateOne(ctx, "update lesson", id, bson.M{"$set": set})
}

// SetFlag sets one of the moderation booleans (isReviewed, isFeatured).
func (r *repository) SetFlag(
	ctx context.Context,
	id primitive.ObjectID,
	field string,
	value bool,
) (UpdateResult, error) {
	return r.updateOne(ctx, "set "+field, id, bson.M{"$set": bson.M{
		field:       value,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *repository) updateOne(
	ctx context.Context,
	op string,
	id primitive.ObjectID,
	update any,
) (UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *repository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete lesson: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *repository) ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, int64, error) {
	filter := PublicCatalog(q).BSON()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count public lessons: %w", err)
	}

	var cursor *mongo.Cursor
	if q.Sort == SortMostSaved {
		cursor, err = r.coll.Aggregate(ctx, mostSavedPipeline(filter, q))
	} else {
		opts := options.Find().
			SetSort(sortSpec(q.Sort)).
			SetSkip(int64(q.Skip)).
			SetLimit(int64(q.Limit))
		cursor, err = r.coll.Find(ctx, filter, opts)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list public lessons: %w", err)
	}

	lessons, err := decodeAll(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

// mostSavedPipeline ranks by the size of favorites, computed on the fly.
func mostSavedPipeline(filter bson.D, q PublicQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.D{{Key: "savedCount", Value: bson.D{
			{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$favorites", bson.A{}}}}},
		}}}}},
		{{Key: "$sort", Value: sortSpec(SortMostSaved)}},
		{{Key: "$skip", Value: int64(q.Skip)}},
		{{Key: "$limit", Value: int64(q.Limit)}},
		{{Key: "$unset", Value: "savedCount"}},
	}
}

func (r *repository) ListByAuthorEmail(ctx context.Context, email string, limit int) ([]Lesson, error) {
	return r.find(ctx, "list lessons by author email",
		NewFilter().Equals("author.email", email).BSON(),
		options.Find().
			SetSort(sortSpec(SortNewest)).
			SetLimit(int64(limit)),
	)
}

func (r *repository) ListByAuthorID(ctx context.Context, userID string) ([]Lesson, error) {
	return r.find(ctx, "list lessons by author",
		NewFilter().Equals("author.userId", userID).BSON(),
		options.Find().SetSort(sortSpec(SortNewest)),
	)
}

func (r *repository) ListFavoritedBy(ctx context.Context, userID string) ([]Lesson, error) {
	return r.find(ctx, "list favorites",
		NewFilter().Equals("favorites", userID).BSON(),
		options.Find().SetSort(sortSpec(SortNewest)),
	)
}

func (r *repository) ListFlagged(ctx context.Context) ([]Lesson, error) {
	return r.find(ctx, "list flagged lessons",
		NewFilter().Equals("isFlagged", true).BSON(),
		options.Find().SetSort(sortSpec(SortNewest)),
	)
}

func (r *repository) ListRelated(ctx context.Context, lesson *Lesson, limit int) ([]Lesson, error) {
	return r.find(ctx, "list related lessons",
		NewFilter().
			Equals("category", lesson.Category).
			Not("_id", lesson.ID).
			BSON(),
		options.Find().SetLimit(int64(limit)),
	)
}

func (r *repository) find(
	ctx context.Context,
	op string,
	filter bson.D,
	opts *options.FindOptions,
) ([]Lesson, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return decodeAll(ctx, cursor)
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]Lesson, error) {
	lessons := []Lesson{}
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	return lessons, nil
}

// ToggleMember removes userID from the set if present and appends it
// otherwise, in a single pipeline update. It returns whether userID is in
// the set afterwards.
func (r *repository) ToggleMember(
	ctx context.Context,
	id primitive.ObjectID,
	set MemberSet,
	userID string,
) (bool, error) {
	field := string(set)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: field, Value: 1}})

	var updated Lesson
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		togglePipeline(field, userID),
		opts,
	).Decode(&updated)
	if err != nil {
		return false, core.NotFoundOr("toggle "+field, err)
	}

	members := updated.Likes
	if set == SetFavorites {
		members = updated.Favorites
	}
	return slices.Contains(members, userID), nil
}

func togglePipeline(field, userID string) mongo.Pipeline {
	current := bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}
	member := bson.D{{Key: "$literal", Value: userID}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: field, Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{member, current}}}},
			{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: current},
				{Key: "as", Value: "m"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$m", member}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{member}}}}},
		}}}}}}},
	}
}

func (r *repository) AddReport(ctx context.Context, id primitive.ObjectID, report Report) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"reports": report},
		"$set":  bson.M{"isFlagged": true},
	})
	if err != nil {
		return 0, fmt.Errorf("add report: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *repository) ClearReports(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"isFlagged": false},
		"$unset": bson.M{"reports": ""},
	})
	if err != nil {
		return 0, fmt.Errorf("clear reports: %w", err)
	}
	return res.MatchedCount, nil
}

type statsFacet struct {
	Totals     []Stats `bson:"totals"`
	ByCategory []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	} `bson:"byCategory"`
}

func countWhen(cond any) bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{cond, 1, 0}}}}}
}

func lowerEq(field, value string) bson.D {
	return bson.D{{Key: "$eq", Value: bson.A{
		bson.D{{Key: "$toLower", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, ""}}}}},
		value,
	}}}
}

func isTrue(field string) bson.D {
	return bson.D{{Key: "$eq", Value: bson.A{"$" + field, true}}}
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "totals", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "public", Value: countWhen(lowerEq("privacy", PrivacyPublic))},
					{Key: "private", Value: countWhen(lowerEq("privacy", PrivacyPrivate))},
					{Key: "free", Value: countWhen(lowerEq("accessLevel", AccessFree))},
					{Key: "premium", Value: countWhen(lowerEq("accessLevel", AccessPremium))},
					{Key: "flagged", Value: countWhen(isTrue("isFlagged"))},
					{Key: "reviewed", Value: countWhen(isTrue("isReviewed"))},
					{Key: "featured", Value: countWhen(isTrue("isFeatured"))},
				}}},
			}},
			{Key: "byCategory", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$category"},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
			}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lesson stats: %w", err)
	}

	var facets []statsFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode lesson stats: %w", err)
	}

	stats := &Stats{ByCategory: map[string]int64{}}
	if len(facets) == 0 {
		return stats, nil
	}
	if len(facets[0].Totals) > 0 {
		*stats = facets[0].Totals[0]
		stats.ByCategory = map[string]int64{}
	}
	for _, c := range facets[0].ByCategory {
		name := c.Category
		if name == "" {
			name = "uncategorized"
		}
		stats.ByCategory[name] += c.Count
	}

	return stats, nil
}

type reportLog struct {
	coll *mongo.Collection
}

func NewReportLog(db *mongo.Database) ReportLog {
	return &reportLog{coll: db.Collection(core.CollectionReports)}
}

func (r *reportLog) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "lessonId", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("lesson_timestamp"),
	})
	if err != nil {
		return fmt.Errorf("ensure report indexes: %w", err)
	}
	return nil
}

func (r *reportLog) Append(ctx context.Context, entry *ReportLogEntry) error {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("append report log: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (r *reportLog) ListByLesson(ctx context.Context, lessonID string) ([]ReportLogEntry, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"lessonId": lessonID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list report log: %w", err)
	}

	entries := []ReportLogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode report log: %w", err)
	}
	return entries, nil
}
