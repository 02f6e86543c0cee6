// server/internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"agrifield-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by Find* methods when no document matches.
var ErrNotFound = errors.New("repository: document not found")

// ErrDuplicateEmail is returned by UserRepository.Insert when the email is
// already registered.
var ErrDuplicateEmail = errors.New("repository: email already registered")

// ProfileUpdate carries the onboarding fields a user can fill in after
// signup. Password is already hashed when it reaches the repository; empty
// means "leave unchanged".
type ProfileUpdate struct {
	Name     string
	Age      int
	State    string
	District string
	Pincode  string
	Password string
}

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error
}

// FieldRepository gives access to the fields collection. All lifecycle flips
// (MarkDeleted/MarkRestored) are conditional single-document updates: the
// filter pins the owner and the current deletion state and the update bumps
// the version counter, so concurrent flips cannot both win. The boolean
// result reports whether the filter matched anything.
type FieldRepository interface {
	Insert(ctx context.Context, field *models.Field) error
	// FindByID returns the field regardless of its deletion state; callers
	// decide what a binned record means for them.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Field, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Field, error)
	// FindByOwner returns active fields newest-created first, or binned
	// fields newest-deleted first when deleted is true.
	FindByOwner(ctx context.Context, owner primitive.ObjectID, deleted bool) ([]models.Field, error)
	MarkDeleted(ctx context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error)
	MarkRestored(ctx context.Context, id, owner primitive.ObjectID) (bool, error)
}

type ActivityRepository interface {
	Insert(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error)
	// FindByField returns non-deleted activities ordered by activityDate
	// descending. The ordering is a displayed contract of the dashboard.
	FindByField(ctx context.Context, field primitive.ObjectID) ([]models.Activity, error)
	// FindActiveByOwner returns every non-deleted activity of the owner,
	// feeding the per-field financial aggregation.
	FindActiveByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Activity, error)
	FindDeletedByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Activity, error)
	MarkCompleted(ctx context.Context, id, owner primitive.ObjectID) (bool, error)
	MarkDeleted(ctx context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error)
	MarkRestored(ctx context.Context, id, owner primitive.ObjectID) (bool, error)
}
