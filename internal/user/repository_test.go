// AngelaMos | 2026
// repository_test.go

package user

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

func TestRepositoryMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by email decodes document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "life_log.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ada@example.com"},
			{Key: "role", Value: "admin"},
			{Key: "isUserPremium", Value: true},
		}))

		repo := &repository{coll: mt.Coll}
		u, err := repo.GetByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.True(mt, u.IsAdmin())
		assert.True(mt, u.IsUserPremium)
	})

	mt.Run("missing document maps to not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "life_log.users", mtest.FirstBatch))

		repo := &repository{coll: mt.Coll}
		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, core.ErrNotFound)
	})

	mt.Run("duplicate email maps to duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		repo := &repository{coll: mt.Coll}
		_, err := repo.Create(context.Background(), &User{Email: "ada@example.com"})
		assert.ErrorIs(mt, err, core.ErrDuplicateKey)
	})

	mt.Run("set premium reports matched count", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 1},
			{Key: "nModified", Value: 1},
		})

		repo := &repository{coll: mt.Coll}
		matched, err := repo.SetPremiumByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), matched)
	})
}
