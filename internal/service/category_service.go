package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/metrics"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// CategoryResult is a category together with the groups written for it.
type CategoryResult struct {
	Category *model.Category `json:"category"`
	Groups   []model.Group   `json:"groups"`
	Report   engine.Report   `json:"report"`
}

// ReorganizeResult is the outcome of a category update or regroup run.
type ReorganizeResult struct {
	Category    *model.Category `json:"category"`
	Plan        engine.Plan     `json:"plan"`
	Report      engine.Report   `json:"report"`
	Reorganized bool            `json:"reorganized"`
}

// CategoryService handles categories and the group writes they trigger.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	groupRepo    *repository.GroupRepository
	partitioner  *engine.Partitioner
	reorganizer  *engine.Reorganizer
	ids          engine.IDGenerator
	metrics      *metrics.Metrics
	access       courseAccess
	log          zerolog.Logger
}

// NewCategoryService creates a new CategoryService. m may be nil.
func NewCategoryService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	groupRepo *repository.GroupRepository,
	partitioner *engine.Partitioner,
	ids engine.IDGenerator,
	m *metrics.Metrics,
	log zerolog.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
		partitioner:  partitioner,
		reorganizer:  engine.NewReorganizer(partitioner),
		ids:          ids,
		metrics:      m,
		access:       courseAccess{courses: courseRepo},
		log:          log.With().Str("component", "category_service").Logger(),
	}
}

// Create inserts a category and immediately generates its groups: a random
// partition of the roster, or empty shells students fill themselves.
func (s *CategoryService) Create(ctx context.Context, ident model.Identity, courseID string, req model.CreateCategoryRequest) (*CategoryResult, error) {
	course, err := s.access.owned(ctx, ident, courseID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, engine.NewValidationError("name", "es obligatorio")
	}

	category := &model.Category{
		ID:                  s.ids.NewID(),
		CourseID:            course.ID,
		Name:                name,
		RandomGroups:        req.RandomGroups,
		MaxStudentsPerGroup: req.MaxStudentsPerGroup,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	var groups []model.Group
	if category.RandomGroups {
		groups = s.partitioner.PartitionRandom(course.ID, category.ID, course.StudentIDs, category.Capacity())
	} else {
		groups = s.partitioner.PartitionFree(course.ID, category.ID, len(course.StudentIDs), category.Capacity())
	}

	report, err := engine.RunSequential(ctx, engine.CreateGroupTasks(groups, s.groupRepo), s.stepLogger(category.ID))
	result := &CategoryResult{Category: category, Groups: groups, Report: report}
	if err != nil {
		return result, err
	}

	s.log.Info().
		Str("category_id", category.ID).
		Bool("random_groups", category.RandomGroups).
		Int("groups", len(groups)).
		Msg("Category created")
	return result, nil
}

// List returns the categories of a course.
func (s *CategoryService) List(ctx context.Context, ident model.Identity, courseID string) ([]model.Category, error) {
	if _, err := s.access.member(ctx, ident, courseID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListByCourse(ctx, courseID)
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, ident model.Identity, id string) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.access.member(ctx, ident, category.CourseID); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies the changed fields. A change of assignment mode or capacity
// reorganizes the category's groups.
func (s *CategoryService) Update(ctx context.Context, ident model.Identity, id string, req model.UpdateCategoryRequest) (*ReorganizeResult, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.access.owned(ctx, ident, category.CourseID); err != nil {
		return nil, err
	}

	before := *category
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, engine.NewValidationError("name", "es obligatorio")
		}
		category.Name = name
	}
	if req.RandomGroups != nil {
		category.RandomGroups = *req.RandomGroups
	}
	if req.ClearCapacity {
		category.MaxStudentsPerGroup = nil
	} else if req.MaxStudentsPerGroup != nil {
		category.MaxStudentsPerGroup = req.MaxStudentsPerGroup
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if before.RandomGroups == category.RandomGroups && before.Capacity() == category.Capacity() {
		return &ReorganizeResult{Category: category, Plan: engine.Plan{}}, nil
	}

	plan, err := s.plan(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, category, plan, nil)
}

// Preview computes the reorganization of a category without writing it.
func (s *CategoryService) Preview(ctx context.Context, id string) (*model.Category, engine.Plan, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, engine.Plan{}, fmt.Errorf("get category: %w", err)
	}
	plan, err := s.plan(ctx, category)
	if err != nil {
		return nil, engine.Plan{}, err
	}
	return category, plan, nil
}

func (s *CategoryService) plan(ctx context.Context, category *model.Category) (engine.Plan, error) {
	groups, err := s.groupRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return engine.Plan{}, fmt.Errorf("list groups: %w", err)
	}
	return s.reorganizer.Reorganize(category, groups), nil
}

// Apply writes a reorganization plan step by step. progress may be nil.
func (s *CategoryService) Apply(ctx context.Context, category *model.Category, plan engine.Plan, progress engine.Progress) (*ReorganizeResult, error) {
	log := s.stepLogger(category.ID)
	report, err := engine.RunSequential(ctx, engine.PlanTasks(plan, s.groupRepo), func(r engine.TaskResult) {
		log(r)
		if progress != nil {
			progress(r)
		}
	})

	mode := "free"
	if category.RandomGroups {
		mode = "random"
	}
	s.metrics.Reorganized(mode, err, len(plan.Unassigned))

	result := &ReorganizeResult{Category: category, Plan: plan, Report: report, Reorganized: true}
	if err != nil {
		return result, err
	}

	if len(plan.Unassigned) > 0 {
		s.log.Warn().
			Str("category_id", category.ID).
			Int("count", len(plan.Unassigned)).
			Msg("Students left without a group after capacity change")
	}
	s.log.Info().Str("category_id", category.ID).Str("plan", plan.Describe()).Msg("Groups reorganized")
	return result, nil
}

// Delete removes the groups of a category one by one, then the category.
func (s *CategoryService) Delete(ctx context.Context, ident model.Identity, id string) (engine.Report, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return engine.Report{}, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.access.owned(ctx, ident, category.CourseID); err != nil {
		return engine.Report{}, err
	}

	groups, err := s.groupRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return engine.Report{}, fmt.Errorf("list groups: %w", err)
	}

	tasks := engine.PlanTasks(engine.Plan{Delete: groups}, s.groupRepo)
	tasks = append(tasks, engine.Task{
		Op:       "delete_category",
		EntityID: category.ID,
		Run:      func(ctx context.Context) error { return s.categoryRepo.Delete(ctx, category.ID) },
	})

	report, err := engine.RunSequential(ctx, tasks, s.stepLogger(category.ID))
	if err != nil {
		return report, err
	}
	s.log.Info().Str("category_id", category.ID).Int("groups", len(groups)).Msg("Category deleted")
	return report, nil
}

func (s *CategoryService) stepLogger(categoryID string) engine.Progress {
	return func(r engine.TaskResult) {
		ev := s.log.Debug()
		if !r.Done {
			ev = s.log.Error().Str("error", r.Error)
		}
		ev.Str("category_id", categoryID).
			Int("step", r.Step).
			Str("op", r.Op).
			Str("entity_id", r.EntityID).
			Msg("Group write")
	}
}
