package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// AssessmentRepository handles assessment data access.
type AssessmentRepository struct {
	store store.RecordStore
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(s store.RecordStore) *AssessmentRepository {
	return &AssessmentRepository{store: s}
}

// GetByID retrieves an assessment by its ID.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	return getByID[model.Assessment](ctx, r.store, store.TableAssessments, id)
}

// ListByActivity retrieves the assessments of an activity.
func (r *AssessmentRepository) ListByActivity(ctx context.Context, activityID string) ([]model.Assessment, error) {
	return listBy[model.Assessment](ctx, r.store, store.TableAssessments, "activity_id", activityID)
}

// Create inserts a new assessment.
func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return insert(ctx, r.store, store.TableAssessments, a)
}

// MarkCancelled sets the one-way cancelled flag.
func (r *AssessmentRepository) MarkCancelled(ctx context.Context, id string) error {
	return r.store.Update(ctx, store.TableAssessments, "id", id, store.Record{"cancelled": true})
}

// SetGradesVisible toggles student access to grades.
func (r *AssessmentRepository) SetGradesVisible(ctx context.Context, id string, visible bool) error {
	return r.store.Update(ctx, store.TableAssessments, "id", id, store.Record{"grades_visible": visible})
}

// Delete removes an assessment by its ID.
func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableAssessments, "id", id)
}
