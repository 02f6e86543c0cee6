// server/internal/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types.
const (
	ActivitySowing     = "Sowing"
	ActivityIrrigation = "Irrigation"
	ActivityFertilizer = "Fertilizer"
	ActivityPesticide  = "Pesticide"
	ActivityHarvesting = "Harvesting"
	ActivityOther      = "Other"
)

// Activity statuses. Planned is initial, Completed is terminal; there is no
// reverse transition.
const (
	StatusPlanned   = "Planned"
	StatusCompleted = "Completed"
)

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t string) bool {
	switch t {
	case ActivitySowing, ActivityIrrigation, ActivityFertilizer,
		ActivityPesticide, ActivityHarvesting, ActivityOther:
		return true
	}
	return false
}

// Activity is a dated operational record performed on a Field, carrying cost
// and revenue. Field and Owner are immutable after creation and always belong
// together: the referenced field is owned by the same user.
//
// ExpireAt is only set on soft delete when an activity bin TTL is configured;
// by default activities stay in the bin forever.
type Activity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	Field        primitive.ObjectID `bson:"field" json:"field"`
	ActivityType string             `bson:"activityType" json:"activityType"`
	ActivityDate time.Time          `bson:"activityDate" json:"activityDate"`
	Status       string             `bson:"status" json:"status"`
	ProductName  string             `bson:"productName,omitempty" json:"productName"`
	Quantity     float64            `bson:"quantity,omitempty" json:"quantity"`
	Unit         string             `bson:"unit,omitempty" json:"unit"` // e.g., kg, litre
	Cost         float64            `bson:"cost" json:"cost"`
	Revenue      float64            `bson:"revenue" json:"revenue"`
	Notes        string             `bson:"notes,omitempty" json:"notes"`
	IsDeleted    bool               `bson:"isDeleted" json:"isDeleted"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	ExpireAt     *time.Time         `bson:"expireAt,omitempty" json:"expireAt,omitempty"`
	Version      int64              `bson:"version" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BinActivity is the recycle-bin shape for an activity: the record joined with
// its parent field's name for display. FieldName holds the sentinel
// "Field removed" when the parent field has already been purged.
type BinActivity struct {
	Activity
	FieldName string `json:"fieldName"`
}

// FieldRemovedSentinel is shown in the activity bin when the parent field no
// longer exists.
const FieldRemovedSentinel = "Field removed"
