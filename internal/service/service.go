package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// Domain Errors
var (
	ErrForbidden         = errors.New("not allowed on this course")
	ErrTeacherOnly       = errors.New("operation requires the teacher role")
	ErrStudentOnly       = errors.New("operation requires the student role")
	ErrCodeExhausted     = errors.New("could not allocate a registration code")
	ErrNotInvited        = errors.New("no pending invitation for this email")
	ErrRandomCategory    = errors.New("groups of this category are assigned randomly")
	ErrAlreadyInGroup    = errors.New("student already belongs to a group of this category")
	ErrGroupFull         = errors.New("group is full")
	ErrNotInGroup        = errors.New("student does not belong to this group")
	ErrNoGroup           = errors.New("student has no group in this category")
	ErrCategoryMismatch  = errors.New("category does not belong to this course")
	ErrGradesHidden      = errors.New("grades are not visible yet")
	ErrEvaluationMissing = errors.New("no evaluation to edit for this groupmate")
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// courseAccess resolves a course and checks the caller may act on it.
type courseAccess struct {
	courses *repository.CourseRepository
}

// owned returns the course when ident is its teacher.
func (a courseAccess) owned(ctx context.Context, ident model.Identity, courseID string) (*model.Course, error) {
	if !ident.IsTeacher() {
		return nil, ErrTeacherOnly
	}
	course, err := a.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.TeacherID != ident.UserID {
		return nil, ErrForbidden
	}
	return course, nil
}

// member returns the course when ident teaches it or is enrolled in it.
func (a courseAccess) member(ctx context.Context, ident model.Identity, courseID string) (*model.Course, error) {
	course, err := a.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if ident.IsTeacher() {
		if course.TeacherID != ident.UserID {
			return nil, ErrForbidden
		}
		return course, nil
	}
	if !course.HasStudent(ident.UserID) {
		return nil, ErrForbidden
	}
	return course, nil
}
