package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
)

const (
	ClientsCollection     = "clients"
	OtpCollection         = "temp_otp"
	CredentialsCollection = "credentials"
)

var ErrClientNotFound = errors.New("client not found")

// ClientStore reads and patches client profile documents. Reads run with the service's
// own privileges, so callers decide what may be revealed.
type ClientStore interface {
	FindOneBy(ctx context.Context, field, value string) (models.ClientProfile, error)
	FindSummary(ctx context.Context, patientID, mobile string) (models.ClientSummary, error)
	Patch(ctx context.Context, clientID string, fields map[string]interface{}) error
	Ping(ctx context.Context) error
}

type MongoClientStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewMongoClientStore(db *mongo.Database) *MongoClientStore {
	return &MongoClientStore{db: db, coll: db.Collection(ClientsCollection)}
}

// FindOneBy returns the first profile whose field equals value.
func (s *MongoClientStore) FindOneBy(ctx context.Context, field, value string) (models.ClientProfile, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.M{field: value}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client by %s: %w", field, err)
	}
	return flattenProfile(doc), nil
}

// FindSummary matches patientId AND mobile and builds only the verification projection.
// Fields are read loosely: a value of an unexpected type reads as its zero value, and
// hasPasswordSet counts as set whenever it is truthy.
func (s *MongoClientStore) FindSummary(ctx context.Context, patientID, mobile string) (models.ClientSummary, error) {
	var doc bson.M
	filter := bson.M{models.FieldPatientID: patientID, models.FieldMobile: mobile}
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ClientSummary{}, ErrClientNotFound
	}
	if err != nil {
		return models.ClientSummary{}, fmt.Errorf("find client summary: %w", err)
	}

	summary := models.ClientSummary{
		ID:             idString(doc["_id"]),
		HasPasswordSet: truthy(doc[models.FieldHasPasswordSet]),
	}
	summary.Status, _ = doc["status"].(string)
	summary.IsArchived, _ = doc["isArchived"].(bool)
	summary.IsSoftDeleted, _ = doc["isSoftDeleted"].(bool)
	return summary, nil
}

// Patch sets only the given fields and stamps updatedAt with the server clock.
func (s *MongoClientStore) Patch(ctx context.Context, clientID string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range fields {
		if k == models.FieldUpdatedAt {
			continue
		}
		set[k] = v
	}
	update := bson.M{"$currentDate": bson.M{models.FieldUpdatedAt: true}}
	if len(set) > 0 {
		update["$set"] = set
	}

	result, err := s.coll.UpdateOne(ctx, idFilter(clientID), update)
	if err != nil {
		return fmt.Errorf("patch client %s: %w", clientID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("patch client %s: %w", clientID, ErrClientNotFound)
	}
	return nil
}

func (s *MongoClientStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// idFilter matches a document id stored either as an ObjectID or as a plain string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func flattenProfile(doc bson.M) models.ClientProfile {
	profile := make(models.ClientProfile, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		profile[k] = v
	}
	profile["id"] = idString(doc["_id"])
	return profile
}

// truthy treats absent, false, zero, and empty-string values as unset; anything else is set.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return false
	case bool:
		return val
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	case primitive.Decimal128:
		return !val.IsZero() && !val.IsNaN()
	default:
		return true
	}
}
