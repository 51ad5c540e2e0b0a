package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// ActivityRepository handles activity data access.
type ActivityRepository struct {
	store store.RecordStore
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(s store.RecordStore) *ActivityRepository {
	return &ActivityRepository{store: s}
}

// GetByID retrieves an activity by its ID.
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	return getByID[model.Activity](ctx, r.store, store.TableActivities, id)
}

// ListByCourse retrieves the activities of a course.
func (r *ActivityRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Activity, error) {
	return listBy[model.Activity](ctx, r.store, store.TableActivities, "course_id", courseID)
}

// ListByCategory retrieves the activities bound to a category.
func (r *ActivityRepository) ListByCategory(ctx context.Context, categoryID string) ([]model.Activity, error) {
	return listBy[model.Activity](ctx, r.store, store.TableActivities, "category_id", categoryID)
}

// Create inserts a new activity.
func (r *ActivityRepository) Create(ctx context.Context, a *model.Activity) error {
	return insert(ctx, r.store, store.TableActivities, a)
}

// Update writes the editable fields of an activity.
func (r *ActivityRepository) Update(ctx context.Context, a *model.Activity) error {
	var due any
	if a.DueDate != nil {
		due = a.DueDate
	}
	return r.store.Update(ctx, store.TableActivities, "id", a.ID, store.Record{
		"name":        a.Name,
		"description": a.Description,
		"due_date":    due,
		"visible":     a.Visible,
	})
}

// Delete removes an activity by its ID.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableActivities, "id", id)
}
