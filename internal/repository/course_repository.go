package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	store store.RecordStore
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(s store.RecordStore) *CourseRepository {
	return &CourseRepository{store: s}
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	return getByID[model.Course](ctx, r.store, store.TableCourses, id)
}

// GetByCode retrieves the course holding a registration code.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	courses, err := listBy[model.Course](ctx, r.store, store.TableCourses, "registration_code", code)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, store.ErrNotFound
	}
	return &courses[0], nil
}

// ListByTeacher retrieves the courses a teacher owns.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID model.UserID) ([]model.Course, error) {
	return listBy[model.Course](ctx, r.store, store.TableCourses, "teacher_id", string(teacherID))
}

// List retrieves every course.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	return listBy[model.Course](ctx, r.store, store.TableCourses, "", nil)
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	if c.StudentIDs == nil {
		c.StudentIDs = []model.UserID{}
	}
	if c.Invitations == nil {
		c.Invitations = []string{}
	}
	return insert(ctx, r.store, store.TableCourses, c)
}

// UpdateRoster replaces the enrolled students and pending invitations.
func (r *CourseRepository) UpdateRoster(ctx context.Context, id string, students []model.UserID, invitations []string) error {
	if students == nil {
		students = []model.UserID{}
	}
	if invitations == nil {
		invitations = []string{}
	}
	return r.store.Update(ctx, store.TableCourses, "id", id, store.Record{
		"student_ids": students,
		"invitations": invitations,
	})
}

// Delete removes a course by its ID.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableCourses, "id", id)
}
