package models

import "time"

// OtpSession is an issued one-time code. CreatedAt and ExpiresAt are assigned by the store.
type OtpSession struct {
	ID        string        `bson:"_id" json:"id"`
	Code      string        `bson:"code" json:"-"`
	Mobile    string        `bson:"mobile" json:"mobile"`
	TTL       time.Duration `bson:"-" json:"-"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time     `bson:"expiresAt" json:"expiresAt"`
}

// PushMessage is a single push notification addressed to one device token.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
