package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// CategoryRepository handles category data access.
type CategoryRepository struct {
	store store.RecordStore
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(s store.RecordStore) *CategoryRepository {
	return &CategoryRepository{store: s}
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return getByID[model.Category](ctx, r.store, store.TableCategories, id)
}

// ListByCourse retrieves the categories of a course.
func (r *CategoryRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Category, error) {
	return listBy[model.Category](ctx, r.store, store.TableCategories, "course_id", courseID)
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return insert(ctx, r.store, store.TableCategories, c)
}

// Update writes name, mode and capacity of a category.
func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	var capacity any
	if c.MaxStudentsPerGroup != nil {
		capacity = *c.MaxStudentsPerGroup
	}
	return r.store.Update(ctx, store.TableCategories, "id", c.ID, store.Record{
		"name":                   c.Name,
		"random_groups":          c.RandomGroups,
		"max_students_per_group": capacity,
	})
}

// Delete removes a category by its ID.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableCategories, "id", id)
}
