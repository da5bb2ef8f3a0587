package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is a registered organizer that runs lottery games
type Company struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	RegistrationNumber string             `bson:"registrationNumber" json:"registrationNumber"`
	ContactEmail       string             `bson:"contactEmail" json:"contactEmail"`
	ContactPhone       string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Verified           bool               `bson:"verified" json:"verified"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	VerifiedAt         time.Time          `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
