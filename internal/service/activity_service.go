// server/internal/service/activity_service.go
package service

import (
	"context"
	"errors"
	"time"

	"agrifield-api-server/internal/models"
	"agrifield-api-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ActivityService owns Activity records scoped to a Field: creation with the
// parent-ownership check, the Planned→Completed transition, and the same
// soft-delete/restore pattern as fields. BinTTL is zero by default, meaning
// binned activities are kept until restored; configuring it turns on the same
// TTL purge fields get.
type ActivityService struct {
	Activities repository.ActivityRepository
	Fields     repository.FieldRepository
	BinTTL     time.Duration
	Logger     *zap.Logger
}

func NewActivityService(activities repository.ActivityRepository, fields repository.FieldRepository, binTTL time.Duration, logger *zap.Logger) *ActivityService {
	return &ActivityService{Activities: activities, Fields: fields, BinTTL: binTTL, Logger: logger}
}

type CreateActivityInput struct {
	FieldID      primitive.ObjectID
	ActivityType string
	ActivityDate time.Time
	ProductName  string
	Quantity     float64
	Unit         string
	Cost         float64
	Revenue      float64
	Notes        string
}

// Create persists a new Planned activity after verifying the parent field
// exists and belongs to the caller. Cost and revenue default to zero when
// absent from the request.
func (s *ActivityService) Create(ctx context.Context, owner primitive.ObjectID, input CreateActivityInput) (*models.Activity, error) {
	if !models.ValidActivityType(input.ActivityType) {
		return nil, validationf("unknown activity type %q", input.ActivityType)
	}

	field, err := s.Fields.FindByID(ctx, input.FieldID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if field.Owner != owner {
		return nil, ErrNotAuthorized
	}
	if field.IsDeleted {
		return nil, validationf("cannot log an activity against a field in the recycle bin")
	}

	date := input.ActivityDate
	if date.IsZero() {
		date = time.Now()
	}

	activity := &models.Activity{
		Owner:        owner,
		Field:        input.FieldID,
		ActivityType: input.ActivityType,
		ActivityDate: date,
		Status:       models.StatusPlanned,
		ProductName:  input.ProductName,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		Cost:         input.Cost,
		Revenue:      input.Revenue,
		Notes:        input.Notes,
		IsDeleted:    false,
	}
	if err := s.Activities.Insert(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ListForField returns the field's non-deleted activities, most recent
// activityDate first. The caller must own the field.
func (s *ActivityService) ListForField(ctx context.Context, owner, fieldID primitive.ObjectID) ([]models.Activity, error) {
	field, err := s.Fields.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if field.Owner != owner {
		return nil, ErrNotAuthorized
	}
	return s.Activities.FindByField(ctx, fieldID)
}

// MarkCompleted transitions Planned→Completed. Completing an activity that is
// already Completed is a no-op success: the transition is one-way and
// terminal, so repeating it changes nothing and should not error.
func (s *ActivityService) MarkCompleted(ctx context.Context, owner, id primitive.ObjectID) (*models.Activity, error) {
	activity, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if activity.IsDeleted {
		return nil, ErrNotFound
	}
	if activity.Status == models.StatusCompleted {
		return activity, nil
	}

	matched, err := s.Activities.MarkCompleted(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if !matched {
		s.Logger.Warn("activity completion matched nothing", zap.String("activity", id.Hex()))
	}
	return s.fetchOwned(ctx, owner, id)
}

// SoftDelete bins the activity. The purge timer is only armed when an
// activity bin TTL is configured.
func (s *ActivityService) SoftDelete(ctx context.Context, owner, id primitive.ObjectID) error {
	activity, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return err
	}
	if activity.IsDeleted {
		return nil
	}

	now := time.Now()
	var expireAt *time.Time
	if s.BinTTL > 0 {
		t := now.Add(s.BinTTL)
		expireAt = &t
	}
	_, err = s.Activities.MarkDeleted(ctx, id, owner, now, expireAt)
	return err
}

func (s *ActivityService) Restore(ctx context.Context, owner, id primitive.ObjectID) error {
	activity, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return err
	}
	if !activity.IsDeleted {
		return nil
	}

	_, err = s.Activities.MarkRestored(ctx, id, owner)
	return err
}

// ListBin returns the owner's soft-deleted activities across all fields,
// each joined with its parent field's name for display. A parent that was
// purged by the TTL sweep shows the "Field removed" sentinel.
func (s *ActivityService) ListBin(ctx context.Context, owner primitive.ObjectID) ([]models.BinActivity, error) {
	activities, err := s.Activities.FindDeletedByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(activities))
	seen := map[primitive.ObjectID]bool{}
	for _, a := range activities {
		if !seen[a.Field] {
			seen[a.Field] = true
			ids = append(ids, a.Field)
		}
	}
	fields, err := s.Fields.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(fields))
	for _, f := range fields {
		names[f.ID] = f.Name
	}

	bin := make([]models.BinActivity, 0, len(activities))
	for _, a := range activities {
		name, ok := names[a.Field]
		if !ok {
			name = models.FieldRemovedSentinel
		}
		bin = append(bin, models.BinActivity{Activity: a, FieldName: name})
	}
	return bin, nil
}

func (s *ActivityService) fetchOwned(ctx context.Context, owner, id primitive.ObjectID) (*models.Activity, error) {
	activity, err := s.Activities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if activity.Owner != owner {
		return nil, ErrNotAuthorized
	}
	return activity, nil
}
