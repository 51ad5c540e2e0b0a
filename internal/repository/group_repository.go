package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// GroupRepository handles group data access.
type GroupRepository struct {
	store store.RecordStore
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(s store.RecordStore) *GroupRepository {
	return &GroupRepository{store: s}
}

// GetByID retrieves a group by its ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	return getByID[model.Group](ctx, r.store, store.TableGroups, id)
}

// ListByCategory retrieves the groups of a category.
func (r *GroupRepository) ListByCategory(ctx context.Context, categoryID string) ([]model.Group, error) {
	return listBy[model.Group](ctx, r.store, store.TableGroups, "category_id", categoryID)
}

// ListByCourse retrieves every group of a course.
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Group, error) {
	return listBy[model.Group](ctx, r.store, store.TableGroups, "course_id", courseID)
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	if g.MemberIDs == nil {
		g.MemberIDs = []model.UserID{}
	}
	return insert(ctx, r.store, store.TableGroups, g)
}

// UpdateMembers replaces the member list of a group.
func (r *GroupRepository) UpdateMembers(ctx context.Context, id string, members []model.UserID) error {
	if members == nil {
		members = []model.UserID{}
	}
	return r.store.Update(ctx, store.TableGroups, "id", id, store.Record{"member_ids": members})
}

// Delete removes a group by its ID.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableGroups, "id", id)
}
