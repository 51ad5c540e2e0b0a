package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/store"
)

// ActivityService handles course activities.
type ActivityService struct {
	categoryRepo *repository.CategoryRepository
	activityRepo *repository.ActivityRepository
	ids          engine.IDGenerator
	access       courseAccess
	log          zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	activityRepo *repository.ActivityRepository,
	ids engine.IDGenerator,
	log zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		categoryRepo: categoryRepo,
		activityRepo: activityRepo,
		ids:          ids,
		access:       courseAccess{courses: courseRepo},
		log:          log.With().Str("component", "activity_service").Logger(),
	}
}

// Create inserts an activity bound to a category of the course. Activities
// are visible unless the request says otherwise.
func (s *ActivityService) Create(ctx context.Context, ident model.Identity, courseID string, req model.CreateActivityRequest) (*model.Activity, error) {
	if _, err := s.access.owned(ctx, ident, courseID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category.CourseID != courseID {
		return nil, ErrCategoryMismatch
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, engine.NewValidationError("name", "es obligatorio")
	}

	activity := &model.Activity{
		ID:          s.ids.NewID(),
		CourseID:    courseID,
		CategoryID:  category.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
		Visible:     req.Visible == nil || *req.Visible,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	s.log.Info().Str("activity_id", activity.ID).Str("course_id", courseID).Msg("Activity created")
	return activity, nil
}

// List returns the activities of a course. Students only see visible ones.
func (s *ActivityService) List(ctx context.Context, ident model.Identity, courseID string) ([]model.Activity, error) {
	if _, err := s.access.member(ctx, ident, courseID); err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if ident.IsTeacher() {
		return activities, nil
	}
	visible := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Visible {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// Get returns one activity. A hidden activity does not exist for students.
func (s *ActivityService) Get(ctx context.Context, ident model.Identity, id string) (*model.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if _, err := s.access.member(ctx, ident, activity.CourseID); err != nil {
		return nil, err
	}
	if !ident.IsTeacher() && !activity.Visible {
		return nil, fmt.Errorf("get activity: %w", store.ErrNotFound)
	}
	return activity, nil
}

// Update applies the changed fields of an activity.
func (s *ActivityService) Update(ctx context.Context, ident model.Identity, id string, req model.UpdateActivityRequest) (*model.Activity, error) {
	activity, err := s.owned(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, engine.NewValidationError("name", "es obligatorio")
		}
		activity.Name = name
	}
	if req.Description != nil {
		activity.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueDate != nil {
		activity.DueDate = req.DueDate
	}
	if req.Visible != nil {
		activity.Visible = *req.Visible
	}
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return activity, nil
}

// Delete removes an activity.
func (s *ActivityService) Delete(ctx context.Context, ident model.Identity, id string) error {
	activity, err := s.owned(ctx, ident, id)
	if err != nil {
		return err
	}
	if err := s.activityRepo.Delete(ctx, activity.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete activity: %w", err)
	}
	s.log.Info().Str("activity_id", activity.ID).Msg("Activity deleted")
	return nil
}

func (s *ActivityService) owned(ctx context.Context, ident model.Identity, id string) (*model.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if _, err := s.access.owned(ctx, ident, activity.CourseID); err != nil {
		return nil, err
	}
	return activity, nil
}
