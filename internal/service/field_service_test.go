package service

import (
	"context"
	"testing"
	"time"

	"agrifield-api-server/internal/models"
	"agrifield-api-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestFieldService(binTTL time.Duration) (*FieldService, *repository.MemoryFieldRepository, *repository.MemoryActivityRepository) {
	fieldRepo := repository.NewMemoryFieldRepository()
	activityRepo := repository.NewMemoryActivityRepository()
	svc := NewFieldService(fieldRepo, activityRepo, binTTL, zap.NewNop())
	return svc, fieldRepo, activityRepo
}

func TestCreateFieldValidation(t *testing.T) {
	svc, _, _ := newTestFieldService(0)
	owner := primitive.NewObjectID()

	tests := []struct {
		name  string
		input CreateFieldInput
	}{
		{"missing name", CreateFieldInput{Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat"}},
		{"zero area", CreateFieldInput{Name: "North Plot", SoilType: "Black", CurrentCrop: "Wheat"}},
		{"missing soil type", CreateFieldInput{Name: "North Plot", Area: 2.5, CurrentCrop: "Wheat"}},
		{"missing crop", CreateFieldInput{Name: "North Plot", Area: 2.5, SoilType: "Black"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateField(t *testing.T) {
	svc, _, _ := newTestFieldService(0)
	owner := primitive.NewObjectID()

	field, err := svc.Create(context.Background(), owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	assert.NoError(t, err)
	assert.Equal(t, owner, field.Owner)
	assert.False(t, field.IsDeleted)
	assert.Nil(t, field.ExpireAt)
}

func TestListFieldsWithAggregates(t *testing.T) {
	svc, _, activityRepo := newTestFieldService(0)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, err := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})
	assert.NoError(t, err)

	activityRepo.Insert(ctx, &models.Activity{
		Owner: owner, Field: field.ID, ActivityType: models.ActivitySowing,
		ActivityDate: time.Now(), Status: models.StatusPlanned, Cost: 500, Revenue: 0,
	})
	activityRepo.Insert(ctx, &models.Activity{
		Owner: owner, Field: field.ID, ActivityType: models.ActivityHarvesting,
		ActivityDate: time.Now(), Status: models.StatusPlanned, Cost: 200, Revenue: 3000,
	})

	listed, err := svc.List(ctx, owner)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, "North Plot", listed[0].Name)
	assert.Equal(t, 700.0, listed[0].Stats.TotalCost)
	assert.Equal(t, 3000.0, listed[0].Stats.TotalRevenue)
	assert.Equal(t, 2300.0, listed[0].Stats.NetProfit)
}

func TestListExcludesDeletedActivitiesFromAggregates(t *testing.T) {
	svc, _, activityRepo := newTestFieldService(0)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	activityRepo.Insert(ctx, &models.Activity{
		Owner: owner, Field: field.ID, ActivityType: models.ActivitySowing,
		ActivityDate: time.Now(), Status: models.StatusPlanned, Cost: 500,
	})
	harvest := &models.Activity{
		Owner: owner, Field: field.ID, ActivityType: models.ActivityHarvesting,
		ActivityDate: time.Now(), Status: models.StatusPlanned, Cost: 200, Revenue: 3000,
	}
	activityRepo.Insert(ctx, harvest)

	// Binning the harvesting record must drop its cost and revenue from the
	// aggregates on the next listing.
	matched, err := activityRepo.MarkDeleted(ctx, harvest.ID, owner, time.Now(), nil)
	assert.NoError(t, err)
	assert.True(t, matched)

	listed, err := svc.List(ctx, owner)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, listed[0].Stats.TotalCost)
	assert.Equal(t, 0.0, listed[0].Stats.TotalRevenue)
	assert.Equal(t, -500.0, listed[0].Stats.NetProfit)
}

func TestSoftDeleteMovesFieldToBin(t *testing.T) {
	svc, _, _ := newTestFieldService(720 * time.Hour)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	assert.NoError(t, svc.SoftDelete(ctx, owner, field.ID))

	listed, _ := svc.List(ctx, owner)
	assert.Empty(t, listed)

	bin, _ := svc.ListBin(ctx, owner)
	assert.Len(t, bin, 1)
	assert.True(t, bin[0].IsDeleted)
	assert.NotNil(t, bin[0].DeletedAt)
	// The purge timer is armed for the storage engine's TTL sweep.
	assert.NotNil(t, bin[0].ExpireAt)
	assert.True(t, bin[0].ExpireAt.After(time.Now()))
}

func TestSoftDeleteWithoutTTLLeavesNoExpiry(t *testing.T) {
	svc, _, _ := newTestFieldService(0)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})
	assert.NoError(t, svc.SoftDelete(ctx, owner, field.ID))

	bin, _ := svc.ListBin(ctx, owner)
	assert.Len(t, bin, 1)
	assert.Nil(t, bin[0].ExpireAt)
}

func TestRestoreRoundTripIsNoOp(t *testing.T) {
	svc, _, _ := newTestFieldService(720 * time.Hour)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	assert.NoError(t, svc.SoftDelete(ctx, owner, field.ID))
	assert.NoError(t, svc.Restore(ctx, owner, field.ID))

	detail, err := svc.Get(ctx, owner, field.ID)
	assert.NoError(t, err)
	assert.False(t, detail.IsDeleted)
	assert.Nil(t, detail.DeletedAt)
	assert.Nil(t, detail.ExpireAt)

	listed, _ := svc.List(ctx, owner)
	assert.Len(t, listed, 1)
	bin, _ := svc.ListBin(ctx, owner)
	assert.Empty(t, bin)
}

func TestRestoreActiveFieldIsNoOpSuccess(t *testing.T) {
	svc, _, _ := newTestFieldService(0)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	assert.NoError(t, svc.Restore(ctx, owner, field.ID))
}

func TestRestoreAfterPurgeIsNotFound(t *testing.T) {
	svc, fieldRepo, _ := newTestFieldService(720 * time.Hour)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})
	assert.NoError(t, svc.SoftDelete(ctx, owner, field.ID))

	// The TTL sweep removed the document; restore is a hard cutoff.
	fieldRepo.Purge(field.ID)

	assert.ErrorIs(t, svc.Restore(ctx, owner, field.ID), ErrNotFound)
}

func TestFieldOwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestFieldService(720 * time.Hour)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	ctx := context.Background()

	field, _ := svc.Create(ctx, owner, CreateFieldInput{
		Name: "North Plot", Area: 2.5, SoilType: "Black", CurrentCrop: "Wheat",
	})

	_, err := svc.Get(ctx, stranger, field.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	assert.ErrorIs(t, svc.SoftDelete(ctx, stranger, field.ID), ErrNotAuthorized)
	assert.ErrorIs(t, svc.Restore(ctx, stranger, field.ID), ErrNotAuthorized)

	// No state change leaked through.
	detail, err := svc.Get(ctx, owner, field.ID)
	assert.NoError(t, err)
	assert.False(t, detail.IsDeleted)
}

func TestGetMissingFieldIsNotFound(t *testing.T) {
	svc, _, _ := newTestFieldService(0)

	_, err := svc.Get(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, fieldRepo, _ := newTestFieldService(0)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	fieldRepo.Insert(ctx, &models.Field{Owner: owner, Name: "Old Plot", Area: 1, SoilType: "Red", CurrentCrop: "Rice"})
	time.Sleep(2 * time.Millisecond)
	fieldRepo.Insert(ctx, &models.Field{Owner: owner, Name: "New Plot", Area: 1, SoilType: "Red", CurrentCrop: "Rice"})

	listed, err := svc.List(ctx, owner)
	assert.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, "New Plot", listed[0].Name)
	assert.Equal(t, "Old Plot", listed[1].Name)
}
