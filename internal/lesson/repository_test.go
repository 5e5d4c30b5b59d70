// AngelaMos | 2026
// repository_test.go

package lesson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

const lessonsNS = "life_log.lessons"

func TestRepositoryMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("toggle reports membership after update", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "likes", Value: bson.A{"u1", "u2"}},
			}},
		})

		repo := &repository{coll: mt.Coll}
		present, err := repo.ToggleMember(context.Background(), id, SetLikes, "u2")
		require.NoError(mt, err)
		assert.True(mt, present)
	})

	mt.Run("toggle sends the pipeline in one findAndModify", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{{Key: "_id", Value: id}}},
		})

		repo := &repository{coll: mt.Coll}
		_, err := repo.ToggleMember(context.Background(), id, SetLikes, "u1")
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		assert.Equal(mt, bson.TypeArray, evt.Command.Lookup("update").Type)
		assert.Equal(mt, "u1",
			evt.Command.Lookup("update", "0", "$set", "likes", "$cond", "else",
				"$concatArrays", "1", "0", "$literal").StringValue())
		assert.True(mt, evt.Command.Lookup("new").Boolean())
	})

	mt.Run("toggle removal reports absence", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "favorites", Value: bson.A{}},
			}},
		})

		repo := &repository{coll: mt.Coll}
		present, err := repo.ToggleMember(context.Background(), id, SetFavorites, "u1")
		require.NoError(mt, err)
		assert.False(mt, present)
	})

	mt.Run("toggle on missing lesson is not found", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: nil},
		})

		repo := &repository{coll: mt.Coll}
		_, err := repo.ToggleMember(context.Background(), primitive.NewObjectID(), SetLikes, "u1")
		assert.ErrorIs(mt, err, core.ErrNotFound)
	})

	mt.Run("add report returns matched count", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 1},
			{Key: "nModified", Value: 1},
		})

		repo := &repository{coll: mt.Coll}
		matched, err := repo.AddReport(context.Background(), primitive.NewObjectID(), Report{
			ReporterEmail: "r@example.com",
			Reason:        "spam",
		})
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), matched)
	})

	mt.Run("stats decodes facets", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, lessonsNS, mtest.FirstBatch, bson.D{
			{Key: "totals", Value: bson.A{bson.D{
				{Key: "_id", Value: nil},
				{Key: "total", Value: 3},
				{Key: "public", Value: 2},
				{Key: "private", Value: 1},
				{Key: "free", Value: 3},
				{Key: "premium", Value: 0},
				{Key: "flagged", Value: 1},
				{Key: "reviewed", Value: 0},
				{Key: "featured", Value: 1},
			}}},
			{Key: "byCategory", Value: bson.A{
				bson.D{{Key: "_id", Value: "Career"}, {Key: "count", Value: 2}},
				bson.D{{Key: "_id", Value: nil}, {Key: "count", Value: 1}},
			}},
		}))

		repo := &repository{coll: mt.Coll}
		stats, err := repo.Stats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), stats.Total)
		assert.Equal(mt, int64(2), stats.Public)
		assert.Equal(mt, int64(1), stats.Flagged)
		assert.Equal(mt, int64(1), stats.Featured)
		assert.Equal(mt, map[string]int64{"Career": 2, "uncategorized": 1}, stats.ByCategory)
	})

	mt.Run("stats on empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, lessonsNS, mtest.FirstBatch, bson.D{
			{Key: "totals", Value: bson.A{}},
			{Key: "byCategory", Value: bson.A{}},
		}))

		repo := &repository{coll: mt.Coll}
		stats, err := repo.Stats(context.Background())
		require.NoError(mt, err)
		assert.Zero(mt, stats.Total)
		assert.Empty(mt, stats.ByCategory)
	})

	mt.Run("list public counts then finds", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(0, lessonsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: 7}})
		mt.AddMockResponses(
			first,
			mtest.CreateCursorResponse(0, lessonsNS, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "one"}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "two"}},
			),
		)

		repo := &repository{coll: mt.Coll}
		q := PublicQuery{Limit: 2}
		q.Normalize(20)
		lessons, total, err := repo.ListPublic(context.Background(), q)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), total)
		require.Len(mt, lessons, 2)
		assert.Equal(mt, "one", lessons[0].Title)
	})
}

func TestTogglePipeline(t *testing.T) {
	got, err := bson.MarshalExtJSON(bson.D{{Key: "pipeline", Value: togglePipeline("favorites", "$u1")}}, false, false)
	require.NoError(t, err)

	current := `{"$ifNull": ["$favorites", []]}`
	member := `{"$literal": "$u1"}`
	want := `{"pipeline": [{"$set": {"favorites": {"$cond": {
		"if": {"$in": [` + member + `, ` + current + `]},
		"then": {"$filter": {
			"input": ` + current + `,
			"as": "m",
			"cond": {"$ne": ["$$m", ` + member + `]}
		}},
		"else": {"$concatArrays": [` + current + `, [` + member + `]]}
	}}}}]}`

	assert.JSONEq(t, want, string(got))
}
