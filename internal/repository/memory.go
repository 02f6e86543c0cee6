// server/internal/repository/memory.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrifield-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the Mongo implementations: conditional flips, version bumps
// and the documented orderings.

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.Password != "" {
		u.Password = update.Password
	}
	u.Age = update.Age
	u.State = update.State
	u.District = update.District
	u.Pincode = update.Pincode
	u.ProfileComplete = true
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

type MemoryFieldRepository struct {
	mu     sync.Mutex
	fields map[primitive.ObjectID]models.Field
}

func NewMemoryFieldRepository() *MemoryFieldRepository {
	return &MemoryFieldRepository{fields: make(map[primitive.ObjectID]models.Field)}
}

func (r *MemoryFieldRepository) Insert(_ context.Context, field *models.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	field.ID = primitive.NewObjectID()
	field.CreatedAt = time.Now()
	field.UpdatedAt = field.CreatedAt
	r.fields[field.ID] = *field
	return nil
}

func (r *MemoryFieldRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *MemoryFieldRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fields := []models.Field{}
	for _, id := range ids {
		if f, ok := r.fields[id]; ok {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func (r *MemoryFieldRepository) FindByOwner(_ context.Context, owner primitive.ObjectID, deleted bool) ([]models.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fields := []models.Field{}
	for _, f := range r.fields {
		if f.Owner == owner && f.IsDeleted == deleted {
			fields = append(fields, f)
		}
	}
	sort.Slice(fields, func(i, j int) bool {
		if deleted {
			return fields[i].DeletedAt.After(*fields[j].DeletedAt)
		}
		return fields[i].CreatedAt.After(fields[j].CreatedAt)
	})
	return fields, nil
}

func (r *MemoryFieldRepository) MarkDeleted(_ context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok || f.Owner != owner || f.IsDeleted {
		return false, nil
	}
	f.IsDeleted = true
	f.DeletedAt = &deletedAt
	f.ExpireAt = expireAt
	f.Version++
	f.UpdatedAt = time.Now()
	r.fields[id] = f
	return true, nil
}

func (r *MemoryFieldRepository) MarkRestored(_ context.Context, id, owner primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok || f.Owner != owner || !f.IsDeleted {
		return false, nil
	}
	f.IsDeleted = false
	f.DeletedAt = nil
	f.ExpireAt = nil
	f.Version++
	f.UpdatedAt = time.Now()
	r.fields[id] = f
	return true, nil
}

// Purge simulates the storage engine's TTL sweep removing a document.
func (r *MemoryFieldRepository) Purge(id primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fields, id)
}

type MemoryActivityRepository struct {
	mu         sync.Mutex
	activities map[primitive.ObjectID]models.Activity
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{activities: make(map[primitive.ObjectID]models.Activity)}
}

func (r *MemoryActivityRepository) Insert(_ context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt
	r.activities[activity.ID] = *activity
	return nil
}

func (r *MemoryActivityRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryActivityRepository) FindByField(_ context.Context, field primitive.ObjectID) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	activities := []models.Activity{}
	for _, a := range r.activities {
		if a.Field == field && !a.IsDeleted {
			activities = append(activities, a)
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].ActivityDate.After(activities[j].ActivityDate)
	})
	return activities, nil
}

func (r *MemoryActivityRepository) FindActiveByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Activity, error) {
	return r.findByOwner(owner, false)
}

func (r *MemoryActivityRepository) FindDeletedByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Activity, error) {
	return r.findByOwner(owner, true)
}

func (r *MemoryActivityRepository) findByOwner(owner primitive.ObjectID, deleted bool) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	activities := []models.Activity{}
	for _, a := range r.activities {
		if a.Owner == owner && a.IsDeleted == deleted {
			activities = append(activities, a)
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].ActivityDate.After(activities[j].ActivityDate)
	})
	return activities, nil
}

func (r *MemoryActivityRepository) MarkCompleted(_ context.Context, id, owner primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok || a.Owner != owner || a.IsDeleted || a.Status != models.StatusPlanned {
		return false, nil
	}
	a.Status = models.StatusCompleted
	a.Version++
	a.UpdatedAt = time.Now()
	r.activities[id] = a
	return true, nil
}

func (r *MemoryActivityRepository) MarkDeleted(_ context.Context, id, owner primitive.ObjectID, deletedAt time.Time, expireAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok || a.Owner != owner || a.IsDeleted {
		return false, nil
	}
	a.IsDeleted = true
	a.DeletedAt = &deletedAt
	a.ExpireAt = expireAt
	a.Version++
	a.UpdatedAt = time.Now()
	r.activities[id] = a
	return true, nil
}

func (r *MemoryActivityRepository) MarkRestored(_ context.Context, id, owner primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok || a.Owner != owner || !a.IsDeleted {
		return false, nil
	}
	a.IsDeleted = false
	a.DeletedAt = nil
	a.ExpireAt = nil
	a.Version++
	a.UpdatedAt = time.Now()
	r.activities[id] = a
	return true, nil
}
