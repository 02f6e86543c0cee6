package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth providers for a User account.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User struct matches the document in MongoDB. Password is empty for accounts
// created through Google sign-in until the user sets one during onboarding.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password,omitempty" json:"-"`
	AuthProvider    string             `bson:"authProvider" json:"authProvider"`
	Age             int                `bson:"age,omitempty" json:"age,omitempty"`
	State           string             `bson:"state,omitempty" json:"state,omitempty"`
	District        string             `bson:"district,omitempty" json:"district,omitempty"`
	Pincode         string             `bson:"pincode,omitempty" json:"pincode,omitempty"`
	ProfileComplete bool               `bson:"profileComplete" json:"profileComplete"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
