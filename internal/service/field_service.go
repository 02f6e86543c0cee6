// server/internal/service/field_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrifield-api-server/internal/models"
	"agrifield-api-server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FieldService owns the Field lifecycle: create, list with financial
// aggregates, soft-delete into the recycle bin and restore out of it. The
// physical purge of binned fields is MongoDB's TTL monitor acting on
// expireAt; the service never deletes documents itself.
type FieldService struct {
	Fields     repository.FieldRepository
	Activities repository.ActivityRepository
	BinTTL     time.Duration
	Logger     *zap.Logger
}

func NewFieldService(fields repository.FieldRepository, activities repository.ActivityRepository, binTTL time.Duration, logger *zap.Logger) *FieldService {
	return &FieldService{Fields: fields, Activities: activities, BinTTL: binTTL, Logger: logger}
}

type CreateFieldInput struct {
	Name              string
	Area              float64
	SoilType          string
	CurrentCrop       string
	ImageURL          string
	WaterAvailability string
	RecommendedCrops  []string
	WaterRequirement  string
}

// FieldDetail is the single-field view: the document, its aggregates, the
// derived progress stage and the activity log, newest first.
type FieldDetail struct {
	models.Field
	Stats      models.FieldStats    `json:"stats"`
	Progress   models.FieldProgress `json:"progress"`
	Activities []models.Activity    `json:"activities"`
}

func (s *FieldService) Create(ctx context.Context, owner primitive.ObjectID, input CreateFieldInput) (*models.Field, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, validationf("field name is required")
	}
	if input.Area <= 0 {
		return nil, validationf("field area must be greater than zero")
	}
	if strings.TrimSpace(input.SoilType) == "" {
		return nil, validationf("soil type is required")
	}
	if strings.TrimSpace(input.CurrentCrop) == "" {
		return nil, validationf("current crop is required")
	}

	field := &models.Field{
		Owner:             owner,
		Name:              strings.TrimSpace(input.Name),
		Area:              input.Area,
		SoilType:          input.SoilType,
		CurrentCrop:       input.CurrentCrop,
		ImageURL:          input.ImageURL,
		WaterAvailability: input.WaterAvailability,
		RecommendedCrops:  input.RecommendedCrops,
		WaterRequirement:  input.WaterRequirement,
		IsDeleted:         false,
	}
	if err := s.Fields.Insert(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// List returns the owner's active fields, newest first, each annotated with
// the financial aggregates of its non-deleted activities. One activity query
// per call; grouping happens in memory.
func (s *FieldService) List(ctx context.Context, owner primitive.ObjectID) ([]models.FieldWithStats, error) {
	fields, err := s.Fields.FindByOwner(ctx, owner, false)
	if err != nil {
		return nil, err
	}

	activities, err := s.Activities.FindActiveByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	byField := make(map[primitive.ObjectID][]models.Activity, len(fields))
	for _, a := range activities {
		byField[a.Field] = append(byField[a.Field], a)
	}

	annotated := make([]models.FieldWithStats, 0, len(fields))
	for _, f := range fields {
		annotated = append(annotated, models.FieldWithStats{
			Field: f,
			Stats: ComputeFieldStats(byField[f.ID]),
		})
	}
	return annotated, nil
}

// Get returns the field-detail view. Ownership is verified before anything is
// returned; a field owned by someone else is NotAuthorized, not invisible.
func (s *FieldService) Get(ctx context.Context, owner, id primitive.ObjectID) (*FieldDetail, error) {
	field, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	activities, err := s.Activities.FindByField(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FieldDetail{
		Field:      *field,
		Stats:      ComputeFieldStats(activities),
		Progress:   ComputeProgressStage(activities),
		Activities: activities,
	}, nil
}

// SoftDelete moves the field into the recycle bin and schedules the purge by
// stamping expireAt. The flip is a single conditional update; if another
// request already deleted the field this is a no-op success.
func (s *FieldService) SoftDelete(ctx context.Context, owner, id primitive.ObjectID) error {
	field, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return err
	}
	if field.IsDeleted {
		return nil
	}

	now := time.Now()
	var expireAt *time.Time
	if s.BinTTL > 0 {
		t := now.Add(s.BinTTL)
		expireAt = &t
	}
	matched, err := s.Fields.MarkDeleted(ctx, id, owner, now, expireAt)
	if err != nil {
		return err
	}
	if !matched {
		// Lost the race to a concurrent delete; the record is binned either way.
		s.Logger.Warn("field soft-delete matched nothing", zap.String("field", id.Hex()))
	}
	return nil
}

// Restore returns the field to the active set, clearing the purge timer.
// Restoring an already-active field is a no-op success; restoring after the
// purge has happened is simply NotFound.
func (s *FieldService) Restore(ctx context.Context, owner, id primitive.ObjectID) error {
	field, err := s.fetchOwned(ctx, owner, id)
	if err != nil {
		return err
	}
	if !field.IsDeleted {
		return nil
	}

	_, err = s.Fields.MarkRestored(ctx, id, owner)
	return err
}

// ListBin returns the owner's soft-deleted fields, newest-deleted first.
func (s *FieldService) ListBin(ctx context.Context, owner primitive.ObjectID) ([]models.Field, error) {
	return s.Fields.FindByOwner(ctx, owner, true)
}

func (s *FieldService) fetchOwned(ctx context.Context, owner, id primitive.ObjectID) (*models.Field, error) {
	field, err := s.Fields.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if field.Owner != owner {
		return nil, ErrNotAuthorized
	}
	return field, nil
}
