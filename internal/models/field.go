// server/internal/models/field.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is one plot of managed farmland owned by a single user. Owner never
// changes after creation.
//
// Lifecycle: an active field has IsDeleted=false and no ExpireAt. Soft-deleting
// it sets IsDeleted, DeletedAt and ExpireAt; MongoDB's TTL monitor physically
// removes the document once ExpireAt elapses, so a restore after that point is
// impossible by definition. Version is bumped on every lifecycle flip.
type Field struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner             primitive.ObjectID `bson:"owner" json:"owner"`
	Name              string             `bson:"name" json:"name"`                           // e.g., "North Plot"
	Area              float64            `bson:"area" json:"area"`                           // acres
	SoilType          string             `bson:"soilType" json:"soilType"`                   // e.g., "Black", "Alluvial"
	CurrentCrop       string             `bson:"currentCrop" json:"currentCrop"`             // e.g., "Wheat"
	ImageURL          string             `bson:"imageURL,omitempty" json:"imageURL"`         // S3/CloudFront reference
	WaterAvailability string             `bson:"waterAvailability,omitempty" json:"waterAvailability"` // e.g., "LOW", "MODERATE", "HIGH"
	RecommendedCrops  []string           `bson:"recommendedCrops,omitempty" json:"recommendedCrops"`
	WaterRequirement  string             `bson:"waterRequirement,omitempty" json:"waterRequirement"`
	IsDeleted         bool               `bson:"isDeleted" json:"isDeleted"`
	DeletedAt         *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	ExpireAt          *time.Time         `bson:"expireAt,omitempty" json:"expireAt,omitempty"`
	Version           int64              `bson:"version" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FieldStats are the financial aggregates derived from a field's non-deleted
// activities. They are recomputed on every listing request, never stored.
type FieldStats struct {
	TotalCost    float64 `json:"totalCost"`
	TotalRevenue float64 `json:"totalRevenue"`
	NetProfit    float64 `json:"netProfit"`
}

// FieldWithStats is the listing shape: the field document annotated with its
// aggregates.
type FieldWithStats struct {
	Field
	Stats FieldStats `json:"stats"`
}

// FieldProgress is the derived crop progress for the field-detail view.
type FieldProgress struct {
	Percent int    `json:"percent"` // 0, 25, 50, 75 or 100
	Stage   string `json:"stage"`   // Planning, Sowed, Growing, Maturing, Harvested
}
