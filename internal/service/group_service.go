package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// GroupService handles group listing and self-assignment.
type GroupService struct {
	categoryRepo *repository.CategoryRepository
	groupRepo    *repository.GroupRepository
	partitioner  *engine.Partitioner
	access       courseAccess
	log          zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	groupRepo *repository.GroupRepository,
	partitioner *engine.Partitioner,
	log zerolog.Logger,
) *GroupService {
	return &GroupService{
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
		partitioner:  partitioner,
		access:       courseAccess{courses: courseRepo},
		log:          log.With().Str("component", "group_service").Logger(),
	}
}

// ListByCategory returns the groups of a category.
func (s *GroupService) ListByCategory(ctx context.Context, ident model.Identity, categoryID string) ([]model.Group, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.access.member(ctx, ident, category.CourseID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListByCategory(ctx, categoryID)
}

// MyGroup returns the caller's group in a category.
func (s *GroupService) MyGroup(ctx context.Context, ident model.Identity, categoryID string) (*model.Group, error) {
	groups, err := s.ListByCategory(ctx, ident, categoryID)
	if err != nil {
		return nil, err
	}
	g, ok := model.FindGroupOf(groups, ident.UserID)
	if !ok {
		return nil, ErrNoGroup
	}
	return g, nil
}

// AddEmpty appends an empty group named after the next position.
func (s *GroupService) AddEmpty(ctx context.Context, ident model.Identity, categoryID string) (*model.Group, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.access.owned(ctx, ident, category.CourseID); err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	g := s.partitioner.NewEmptyGroup(category.CourseID, category.ID, len(groups)+1)
	if err := s.groupRepo.Create(ctx, &g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.log.Info().Str("category_id", category.ID).Str("group_id", g.ID).Msg("Empty group added")
	return &g, nil
}

// Join places the calling student in a group of a free category. Capacity
// and the one-group-per-category rule are checked against the current state.
func (s *GroupService) Join(ctx context.Context, ident model.Identity, groupID string) (*model.Group, error) {
	if ident.IsTeacher() {
		return nil, ErrStudentOnly
	}
	group, category, err := s.load(ctx, ident, groupID)
	if err != nil {
		return nil, err
	}
	if category.RandomGroups {
		return nil, ErrRandomCategory
	}

	siblings, err := s.groupRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if current, ok := model.FindGroupOf(siblings, ident.UserID); ok {
		if current.ID == group.ID {
			return group, nil
		}
		return nil, ErrAlreadyInGroup
	}
	if capacity := category.Capacity(); capacity > 0 && group.Size() >= capacity {
		return nil, ErrGroupFull
	}

	group.MemberIDs = append(group.MemberIDs, ident.UserID)
	if err := s.groupRepo.UpdateMembers(ctx, group.ID, group.MemberIDs); err != nil {
		return nil, fmt.Errorf("update members: %w", err)
	}
	s.log.Info().Str("group_id", group.ID).Str("student_id", ident.UserID.String()).Msg("Student joined group")
	return group, nil
}

// Leave removes the calling student from a group of a free category.
func (s *GroupService) Leave(ctx context.Context, ident model.Identity, groupID string) error {
	if ident.IsTeacher() {
		return ErrStudentOnly
	}
	group, category, err := s.load(ctx, ident, groupID)
	if err != nil {
		return err
	}
	if category.RandomGroups {
		return ErrRandomCategory
	}
	if !group.HasMember(ident.UserID) {
		return ErrNotInGroup
	}

	members := make([]model.UserID, 0, group.Size())
	for _, id := range group.MemberIDs {
		if id != ident.UserID {
			members = append(members, id)
		}
	}
	if err := s.groupRepo.UpdateMembers(ctx, group.ID, members); err != nil {
		return fmt.Errorf("update members: %w", err)
	}
	s.log.Info().Str("group_id", group.ID).Str("student_id", ident.UserID.String()).Msg("Student left group")
	return nil
}

func (s *GroupService) load(ctx context.Context, ident model.Identity, groupID string) (*model.Group, *model.Category, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("get group: %w", err)
	}
	if _, err := s.access.member(ctx, ident, group.CourseID); err != nil {
		return nil, nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, group.CategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("get category: %w", err)
	}
	return group, category, nil
}
