package models

import "time"

// Credential is the identity provider's login record. Its ID is the client profile id.
type Credential struct {
	ID            string    `bson:"_id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	PasswordHash  string    `bson:"passwordHash" json:"-"`
	DisplayName   string    `bson:"displayName" json:"displayName"`
	EmailVerified bool      `bson:"emailVerified" json:"emailVerified"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewCredential is what the provisioner hands to the identity provider on create.
type NewCredential struct {
	ID            string
	Email         string
	Password      string
	DisplayName   string
	EmailVerified bool
}

// CredentialUpdate overwrites the password of an existing credential.
type CredentialUpdate struct {
	Password      string
	EmailVerified bool
}
