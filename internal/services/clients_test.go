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

const clientsNS = "nutricare.clients"

func TestMongoClientStoreFindOneBy(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("flattens document with id", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "loginId", Value: "asha01"},
			{Key: "mobile", Value: "9876543210"},
			{Key: "name", Value: "Asha"},
		}))

		profile, err := store.FindOneBy(context.Background(), models.FieldLoginID, "asha01")
		require.NoError(mt, err)
		require.Equal(mt, oid.Hex(), profile.ID())
		require.Equal(mt, "Asha", profile["name"])
		require.Equal(mt, "9876543210", profile["mobile"])
		require.NotContains(mt, profile, "_id")
	})

	mt.Run("no match", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch))

		_, err := store.FindOneBy(context.Background(), models.FieldMobile, "000")
		require.ErrorIs(mt, err, ErrClientNotFound)
	})

	mt.Run("command error", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))

		_, err := store.FindOneBy(context.Background(), models.FieldMobile, "000")
		require.Error(mt, err)
		require.NotErrorIs(mt, err, ErrClientNotFound)
	})
}

func TestMongoClientStoreFindSummary(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes projection and filters on both fields", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "client-7"},
			{Key: "patientId", Value: "P-7"},
			{Key: "mobile", Value: "9000000007"},
			{Key: "loginId", Value: "secret-login"},
			{Key: "hasPasswordSet", Value: false},
			{Key: "status", Value: "active"},
			{Key: "isArchived", Value: true},
		}))

		summary, err := store.FindSummary(context.Background(), "P-7", "9000000007")
		require.NoError(mt, err)
		require.Equal(mt, models.ClientSummary{ID: "client-7", Status: "active", IsArchived: true}, summary)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		filter := started.Command.Lookup("filter").Document()
		require.Equal(mt, "P-7", filter.Lookup("patientId").StringValue())
		require.Equal(mt, "9000000007", filter.Lookup("mobile").StringValue())
	})

	mt.Run("loosely typed fields fall back to zero values", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "client-8"},
			{Key: "status", Value: int32(1)},
			{Key: "isArchived", Value: "no"},
			{Key: "hasPasswordSet", Value: int32(0)},
		}))

		summary, err := store.FindSummary(context.Background(), "P-8", "9000000008")
		require.NoError(mt, err)
		require.Equal(mt, models.ClientSummary{ID: "client-8"}, summary)
	})

	mt.Run("password flag is read as truthy", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		for _, flag := range []interface{}{true, "true", int32(1), 1.5} {
			mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "client-9"},
				{Key: "hasPasswordSet", Value: flag},
				{Key: "status", Value: int32(2)},
			}))

			summary, err := store.FindSummary(context.Background(), "P-9", "9000000009")
			require.NoError(mt, err)
			require.True(mt, summary.HasPasswordSet, "%v", flag)
		}
	})

	mt.Run("no match", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, clientsNS, mtest.FirstBatch))

		_, err := store.FindSummary(context.Background(), "P-1", "1")
		require.ErrorIs(mt, err, ErrClientNotFound)
	})
}

func TestMongoClientStorePatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := store.Patch(context.Background(), "client-1", map[string]interface{}{
			"hasPasswordSet": true,
			"updatedAt":      time.Now(),
		})
		require.NoError(mt, err)
	})

	mt.Run("missing document", func(mt *mtest.T) {
		store := NewMongoClientStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := store.Patch(context.Background(), "client-1", map[string]interface{}{"status": "active"})
		require.ErrorIs(mt, err, ErrClientNotFound)
	})
}

func TestTruthy(t *testing.T) {
	for _, v := range []interface{}{nil, false, int32(0), int64(0), 0.0, "", primitive.Null{}} {
		require.False(t, truthy(v), "%#v", v)
	}
	for _, v := range []interface{}{true, int32(3), int64(-1), 0.1, "false", bson.M{}, bson.A{}, primitive.NewObjectID()} {
		require.True(t, truthy(v), "%#v", v)
	}
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	require.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{oid, oid.Hex()}}}, idFilter(oid.Hex()))
	require.Equal(t, bson.M{"_id": "AbCdEf123"}, idFilter("AbCdEf123"))
}
