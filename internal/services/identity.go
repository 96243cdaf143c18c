package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmailAlreadyExists = errors.New("credential email already exists")
)

// IdentityProvider owns login credentials keyed by client id.
type IdentityProvider interface {
	GetCredential(ctx context.Context, id string) (models.Credential, error)
	GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error)
	CreateCredential(ctx context.Context, cred models.NewCredential) (models.Credential, error)
	UpdateCredential(ctx context.Context, id string, update models.CredentialUpdate) error
}

// MongoIdentityProvider keeps credentials in their own collection with bcrypt password hashes.
type MongoIdentityProvider struct {
	coll *mongo.Collection
}

func NewMongoIdentityProvider(db *mongo.Database) *MongoIdentityProvider {
	return &MongoIdentityProvider{coll: db.Collection(CredentialsCollection)}
}

func (p *MongoIdentityProvider) GetCredential(ctx context.Context, id string) (models.Credential, error) {
	return p.findOne(ctx, bson.M{"_id": id})
}

func (p *MongoIdentityProvider) GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error) {
	return p.findOne(ctx, bson.M{"email": email})
}

func (p *MongoIdentityProvider) findOne(ctx context.Context, filter bson.M) (models.Credential, error) {
	var cred models.Credential
	err := p.coll.FindOne(ctx, filter).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("find credential: %w", err)
	}
	return cred, nil
}

func (p *MongoIdentityProvider) CreateCredential(ctx context.Context, nc models.NewCredential) (models.Credential, error) {
	hash, err := utils.HashPassword(nc.Password)
	if err != nil {
		return models.Credential{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	cred := models.Credential{
		ID:            nc.ID,
		Email:         nc.Email,
		PasswordHash:  hash,
		DisplayName:   nc.DisplayName,
		EmailVerified: nc.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := p.coll.InsertOne(ctx, cred); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Credential{}, fmt.Errorf("create credential %s: %w", nc.ID, ErrEmailAlreadyExists)
		}
		return models.Credential{}, fmt.Errorf("create credential %s: %w", nc.ID, err)
	}
	return cred, nil
}

func (p *MongoIdentityProvider) UpdateCredential(ctx context.Context, id string, u models.CredentialUpdate) error {
	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"passwordHash":  hash,
			"emailVerified": u.EmailVerified,
		},
		"$currentDate": bson.M{"updatedAt": true},
	}
	result, err := p.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update credential %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
