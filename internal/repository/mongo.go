// server/internal/repository/mongo.go
package repository

import (
	"context"
	"errors"
	"time"

	"agrifield-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Users ---

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) Insert(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	set := bson.M{
		"age":             update.Age,
		"state":           update.State,
		"district":        update.District,
		"pincode":         update.Pincode,
		"profileComplete": true,
		"updatedAt":       time.Now(),
	}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Password != "" {
		set["password"] = update.Password
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Fields ---

type MongoFieldRepository struct {
	coll *mongo.Collection
}

func NewMongoFieldRepository(db *mongo.Database) *MongoFieldRepository {
	return &MongoFieldRepository{coll: db.Collection("fields")}
}

func (r *MongoFieldRepository) Insert(ctx context.Context, field *models.Field) error {
	field.CreatedAt = time.Now()
	field.UpdatedAt = field.CreatedAt
	result, err := r.coll.InsertOne(ctx, field)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		field.ID = oid
	}
	return nil
}

func (r *MongoFieldRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Field, error) {
	var field models.Field
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&field)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &field, nil
}

func (r *MongoFieldRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Field, error) {
	if len(ids) == 0 {
		return []models.Field{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fields []models.Field
	if err = cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []models.Field{}
	}
	return fields, nil
}

func (r *MongoFieldRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID, deleted bool) ([]models.Field, error) {
	filter := bson.M{"owner": owner, "isDeleted": deleted}
	sort := bson.D{{Key: "createdAt", Value: -1}}
	if deleted {
		sort = bson.D{{Key: "deletedAt", Value: -1}}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fields []models.Field
	if err = cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []models.Field{}
	}
	return fields, nil
}

func (r *MongoFieldRepository) MarkDeleted(ctx context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error) {
	set := bson.M{
		"isDeleted": true,
		"deletedAt": deletedAt,
		"updatedAt": time.Now(),
	}
	if expireAt != nil {
		set["expireAt"] = *expireAt
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "owner": owner, "isDeleted": false},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoFieldRepository) MarkRestored(ctx context.Context, id, owner primitive.ObjectID) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "owner": owner, "isDeleted": true},
		bson.M{
			"$set":   bson.M{"isDeleted": false, "updatedAt": time.Now()},
			"$unset": bson.M{"deletedAt": "", "expireAt": ""},
			"$inc":   bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// --- Activities ---

type MongoActivityRepository struct {
	coll *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{coll: db.Collection("activities")}
}

func (r *MongoActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt
	result, err := r.coll.InsertOne(ctx, activity)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = oid
	}
	return nil
}

func (r *MongoActivityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (r *MongoActivityRepository) FindByField(ctx context.Context, field primitive.ObjectID) ([]models.Activity, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"field": field, "isDeleted": false},
		options.Find().SetSort(bson.D{{Key: "activityDate", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

func (r *MongoActivityRepository) FindActiveByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Activity, error) {
	return r.findByOwner(ctx, owner, false)
}

func (r *MongoActivityRepository) FindDeletedByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Activity, error) {
	return r.findByOwner(ctx, owner, true)
}

func (r *MongoActivityRepository) findByOwner(ctx context.Context, owner primitive.ObjectID, deleted bool) ([]models.Activity, error) {
	sort := bson.D{{Key: "activityDate", Value: -1}}
	if deleted {
		sort = bson.D{{Key: "deletedAt", Value: -1}}
	}
	cursor, err := r.coll.Find(ctx,
		bson.M{"owner": owner, "isDeleted": deleted},
		options.Find().SetSort(sort),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

func (r *MongoActivityRepository) MarkCompleted(ctx context.Context, id, owner primitive.ObjectID) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "owner": owner, "isDeleted": false, "status": models.StatusPlanned},
		bson.M{
			"$set": bson.M{"status": models.StatusCompleted, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoActivityRepository) MarkDeleted(ctx context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error) {
	set := bson.M{
		"isDeleted": true,
		"deletedAt": deletedAt,
		"updatedAt": time.Now(),
	}
	if expireAt != nil {
		set["expireAt"] = *expireAt
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "owner": owner, "isDeleted": false},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoActivityRepository) MarkRestored(ctx context.Context, id, owner primitive.ObjectID) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "owner": owner, "isDeleted": true},
		bson.M{
			"$set":   bson.M{"isDeleted": false, "updatedAt": time.Now()},
			"$unset": bson.M{"deletedAt": "", "expireAt": ""},
			"$inc":   bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}
