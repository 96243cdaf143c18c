package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
)

// OtpStore persists issued one-time codes. Sessions are write-only from this service.
type OtpStore interface {
	NewID() string
	Save(ctx context.Context, session models.OtpSession) error
}

type MongoOtpStore struct {
	coll *mongo.Collection
}

func NewMongoOtpStore(db *mongo.Database) *MongoOtpStore {
	return &MongoOtpStore{coll: db.Collection(OtpCollection)}
}

func (s *MongoOtpStore) NewID() string {
	return primitive.NewObjectID().Hex()
}

// Save writes the session with createdAt taken from the server clock and expiresAt derived from it.
func (s *MongoOtpStore) Save(ctx context.Context, session models.OtpSession) error {
	set := bson.D{
		{Key: "code", Value: bson.D{{Key: "$literal", Value: session.Code}}},
		{Key: "mobile", Value: bson.D{{Key: "$literal", Value: session.Mobile}}},
		{Key: "createdAt", Value: "$$NOW"},
		{Key: "expiresAt", Value: bson.D{{Key: "$add", Value: bson.A{"$$NOW", session.TTL.Milliseconds()}}}},
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": session.ID}, pipeline, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save otp session %s: %w", session.ID, err)
	}
	return nil
}
