package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// AssessmentService launches and controls peer evaluation rounds.
type AssessmentService struct {
	activities     *ActivityService
	assessmentRepo *repository.AssessmentRepository
	ids            engine.IDGenerator
	clock          Clock
	log            zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	activities *ActivityService,
	assessmentRepo *repository.AssessmentRepository,
	ids engine.IDGenerator,
	clock Clock,
	log zerolog.Logger,
) *AssessmentService {
	return &AssessmentService{
		activities:     activities,
		assessmentRepo: assessmentRepo,
		ids:            ids,
		clock:          clock,
		log:            log.With().Str("component", "assessment_service").Logger(),
	}
}

// Create launches an assessment on an activity. It opens at the current
// minute and runs for the requested duration.
func (s *AssessmentService) Create(ctx context.Context, ident model.Identity, activityID string, req model.CreateAssessmentRequest) (*engine.WindowView, error) {
	activity, err := s.activities.owned(ctx, ident, activityID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, engine.NewValidationError("title", "es obligatorio")
	}
	if req.DurationMinutes <= 0 {
		return nil, engine.NewValidationError("duration_minutes", "debe ser mayor que 0")
	}

	now := s.clock.now()
	start := now.Truncate(time.Minute)
	assessment := &model.Assessment{
		ID:              s.ids.NewID(),
		ActivityID:      activity.ID,
		CourseID:        activity.CourseID,
		Title:           title,
		DurationMinutes: req.DurationMinutes,
		StartAt:         &start,
	}
	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.log.Info().
		Str("assessment_id", assessment.ID).
		Str("activity_id", activity.ID).
		Int("duration_minutes", assessment.DurationMinutes).
		Msg("Assessment launched")
	view := engine.ViewAt(*assessment, now)
	return &view, nil
}

// List returns the assessments of an activity with their window state.
func (s *AssessmentService) List(ctx context.Context, ident model.Identity, activityID string) ([]engine.WindowView, error) {
	if _, err := s.activities.Get(ctx, ident, activityID); err != nil {
		return nil, err
	}
	assessments, err := s.assessmentRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	views := make([]engine.WindowView, 0, len(assessments))
	for _, a := range assessments {
		views = append(views, engine.ViewAt(a, now))
	}
	return views, nil
}

// Get returns one assessment with its window state.
func (s *AssessmentService) Get(ctx context.Context, ident model.Identity, id string) (*engine.WindowView, error) {
	assessment, _, err := s.load(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	view := engine.ViewAt(*assessment, s.clock.now())
	return &view, nil
}

// Cancel closes an assessment for good. Cancelling twice is a no-op.
func (s *AssessmentService) Cancel(ctx context.Context, ident model.Identity, id string) (*engine.WindowView, error) {
	assessment, err := s.owned(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if !assessment.Cancelled {
		if err := s.assessmentRepo.MarkCancelled(ctx, assessment.ID); err != nil {
			return nil, fmt.Errorf("cancel assessment: %w", err)
		}
		engine.Cancel(assessment)
		s.log.Info().Str("assessment_id", assessment.ID).Msg("Assessment cancelled")
	}
	view := engine.ViewAt(*assessment, s.clock.now())
	return &view, nil
}

// SetGradesVisible opens or closes student access to grades.
func (s *AssessmentService) SetGradesVisible(ctx context.Context, ident model.Identity, id string, visible bool) (*engine.WindowView, error) {
	assessment, err := s.owned(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if err := s.assessmentRepo.SetGradesVisible(ctx, assessment.ID, visible); err != nil {
		return nil, fmt.Errorf("set grades visibility: %w", err)
	}
	engine.SetGradesVisible(assessment, visible)
	view := engine.ViewAt(*assessment, s.clock.now())
	return &view, nil
}

// load returns an assessment and its activity, enforcing the caller's
// access to the activity.
func (s *AssessmentService) load(ctx context.Context, ident model.Identity, id string) (*model.Assessment, *model.Activity, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get assessment: %w", err)
	}
	activity, err := s.activities.Get(ctx, ident, assessment.ActivityID)
	if err != nil {
		return nil, nil, err
	}
	return assessment, activity, nil
}

func (s *AssessmentService) owned(ctx context.Context, ident model.Identity, id string) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if _, err := s.activities.owned(ctx, ident, assessment.ActivityID); err != nil {
		return nil, err
	}
	return assessment, nil
}
