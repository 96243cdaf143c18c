package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
)

func TestMongoOtpStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ids are fresh object ids", func(mt *mtest.T) {
		store := NewMongoOtpStore(mt.DB)
		a, b := store.NewID(), store.NewID()
		require.NotEqual(mt, a, b)
		_, err := primitive.ObjectIDFromHex(a)
		require.NoError(mt, err)
	})

	mt.Run("save upserts a server-clock pipeline", func(mt *mtest.T) {
		store := NewMongoOtpStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		session := models.OtpSession{
			ID:     store.NewID(),
			Code:   "123456",
			Mobile: "$where",
			TTL:    5 * time.Minute,
		}
		require.NoError(mt, store.Save(context.Background(), session))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		require.Equal(mt, "update", started.CommandName)

		var cmd bson.M
		require.NoError(mt, bson.Unmarshal(started.Command, &cmd))
		require.Equal(mt, OtpCollection, cmd["update"])

		updates, ok := cmd["updates"].(bson.A)
		require.True(mt, ok, "updates: %#v", cmd["updates"])
		require.Len(mt, updates, 1)
		stmt := updates[0].(bson.M)
		require.Equal(mt, bson.M{"_id": session.ID}, stmt["q"])
		require.Equal(mt, true, stmt["upsert"])

		pipeline, ok := stmt["u"].(bson.A)
		require.True(mt, ok, "update must be a pipeline: %#v", stmt["u"])
		require.Len(mt, pipeline, 1)
		set := pipeline[0].(bson.M)["$set"].(bson.M)

		require.Equal(mt, bson.M{"$literal": "123456"}, set["code"])
		require.Equal(mt, bson.M{"$literal": "$where"}, set["mobile"])
		require.Equal(mt, "$$NOW", set["createdAt"])
		require.Equal(mt, bson.M{"$add": bson.A{"$$NOW", int64(300000)}}, set["expiresAt"])
	})

	mt.Run("save error", func(mt *mtest.T) {
		store := NewMongoOtpStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Message: "interrupted"}))

		err := store.Save(context.Background(), models.OtpSession{ID: "abc", Code: "123456", TTL: time.Minute})
		require.ErrorContains(mt, err, "save otp session abc")
	})
}
