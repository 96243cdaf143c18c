package models

// Field names of a client profile document.
const (
	FieldMobile         = "mobile"
	FieldLoginID        = "loginId"
	FieldPatientID      = "patientId"
	FieldHasPasswordSet = "hasPasswordSet"
	FieldUpdatedAt      = "updatedAt"
)

// ClientSummary is the only view of a client record the verification endpoint may reveal.
type ClientSummary struct {
	ID             string `bson:"-" json:"id"`
	HasPasswordSet bool   `bson:"hasPasswordSet" json:"hasPasswordSet"`
	Status         string `bson:"status" json:"status"`
	IsArchived     bool   `bson:"isArchived" json:"isArchived"`
	IsSoftDeleted  bool   `bson:"isSoftDeleted" json:"isSoftDeleted"`
}

// ClientProfile is a full client document flattened into a map, with "id" holding the document id.
type ClientProfile map[string]interface{}

// ID returns the document id carried in the profile.
func (p ClientProfile) ID() string {
	id, _ := p["id"].(string)
	return id
}
