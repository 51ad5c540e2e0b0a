package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// PeerEvaluationRepository handles peer evaluation data access.
type PeerEvaluationRepository struct {
	store store.RecordStore
}

// NewPeerEvaluationRepository creates a new PeerEvaluationRepository.
func NewPeerEvaluationRepository(s store.RecordStore) *PeerEvaluationRepository {
	return &PeerEvaluationRepository{store: s}
}

// ListByAssessment retrieves every evaluation of an assessment.
func (r *PeerEvaluationRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]model.PeerEvaluation, error) {
	return listBy[model.PeerEvaluation](ctx, r.store, store.TablePeerEvaluations, "assessment_id", assessmentID)
}

// Create inserts one evaluation.
func (r *PeerEvaluationRepository) Create(ctx context.Context, e *model.PeerEvaluation) error {
	return insert(ctx, r.store, store.TablePeerEvaluations, e)
}

// UpdateRatings rewrites the four criteria of an existing evaluation.
func (r *PeerEvaluationRepository) UpdateRatings(ctx context.Context, id string, ratings model.Ratings) error {
	return r.store.Update(ctx, store.TablePeerEvaluations, "id", id, store.Record{
		"punctuality":   ratings.Punctuality,
		"contributions": ratings.Contributions,
		"commitment":    ratings.Commitment,
		"attitude":      ratings.Attitude,
	})
}
