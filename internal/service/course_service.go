package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/store"
	"github.com/stemsi/coeval-backend/internal/worker"
)

const (
	minRegistrationCode = 100000
	maxRegistrationCode = 999999
	codeAttempts        = 10
)

// CodeRegistry reserves registration codes across server instances.
type CodeRegistry interface {
	Reserve(ctx context.Context, code, courseID string) (bool, error)
	Release(ctx context.Context, code string) error
}

// InvitationQueue schedules invitation mails.
type InvitationQueue interface {
	Enqueue(ctx context.Context, invitations ...worker.Invitation) error
}

// CourseService handles course lifecycle, enrolment and invitations.
type CourseService struct {
	courseRepo *repository.CourseRepository
	codes      CodeRegistry
	queue      InvitationQueue
	ids        engine.IDGenerator
	access     courseAccess
	nextCode   func() int
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService. queue may be nil, in which
// case invitations are recorded but no mail is sent.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	codes CodeRegistry,
	queue InvitationQueue,
	ids engine.IDGenerator,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		codes:      codes,
		queue:      queue,
		ids:        ids,
		access:     courseAccess{courses: courseRepo},
		nextCode: func() int {
			return minRegistrationCode + rand.IntN(maxRegistrationCode-minRegistrationCode+1)
		},
		log: log.With().Str("component", "course_service").Logger(),
	}
}

// Create inserts a course owned by the calling teacher with a fresh
// registration code.
func (s *CourseService) Create(ctx context.Context, ident model.Identity, req model.CreateCourseRequest) (*model.Course, error) {
	if !ident.IsTeacher() {
		return nil, ErrTeacherOnly
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, engine.NewValidationError("name", "es obligatorio")
	}

	course := &model.Course{
		ID:          s.ids.NewID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		TeacherID:   ident.UserID,
		StudentIDs:  []model.UserID{},
		Invitations: []string{},
		CreatedAt:   time.Now().UTC(),
	}

	code, err := s.allocateCode(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	course.RegistrationCode = code

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if relErr := s.codes.Release(ctx, code); relErr != nil {
			s.log.Warn().Err(relErr).Str("code", code).Msg("Failed to release registration code")
		}
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("course_id", course.ID).Str("teacher_id", ident.UserID.String()).Msg("Course created")
	return course, nil
}

// allocateCode draws codes until one is free in both the store and the
// registry, giving up after codeAttempts draws.
func (s *CourseService) allocateCode(ctx context.Context, courseID string) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := strconv.Itoa(s.nextCode())

		_, err := s.courseRepo.GetByCode(ctx, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("check registration code: %w", err)
		}

		ok, err := s.codes.Reserve(ctx, code, courseID)
		if err != nil {
			return "", fmt.Errorf("reserve registration code: %w", err)
		}
		if ok {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

// Get returns a course the caller teaches or attends.
func (s *CourseService) Get(ctx context.Context, ident model.Identity, id string) (*model.Course, error) {
	return s.access.member(ctx, ident, id)
}

// ListForTeacher returns the courses the calling teacher owns.
func (s *CourseService) ListForTeacher(ctx context.Context, ident model.Identity) ([]model.Course, error) {
	if !ident.IsTeacher() {
		return nil, ErrTeacherOnly
	}
	return s.courseRepo.ListByTeacher(ctx, ident.UserID)
}

// ListForStudent returns the courses the calling student is enrolled in.
func (s *CourseService) ListForStudent(ctx context.Context, ident model.Identity) ([]model.Course, error) {
	return s.filter(ctx, func(c *model.Course) bool { return c.HasStudent(ident.UserID) })
}

// ListInvitations returns the courses holding a pending invitation for the
// caller's email.
func (s *CourseService) ListInvitations(ctx context.Context, ident model.Identity) ([]model.Course, error) {
	email := normalizeEmail(ident.Email)
	if email == "" {
		return []model.Course{}, nil
	}
	return s.filter(ctx, func(c *model.Course) bool { return c.HasInvitation(email) })
}

func (s *CourseService) filter(ctx context.Context, keep func(*model.Course) bool) ([]model.Course, error) {
	all, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Course, 0)
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Join enrols the calling student through a registration code. Joining a
// course twice is a no-op.
func (s *CourseService) Join(ctx context.Context, ident model.Identity, code string) (*model.Course, error) {
	if ident.IsTeacher() {
		return nil, ErrStudentOnly
	}
	course, err := s.courseRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	if course.HasStudent(ident.UserID) {
		return course, nil
	}

	course.StudentIDs = appendUnique(course.StudentIDs, ident.UserID)
	course.Invitations = removeEmail(course.Invitations, normalizeEmail(ident.Email))
	if err := s.courseRepo.UpdateRoster(ctx, course.ID, course.StudentIDs, course.Invitations); err != nil {
		return nil, fmt.Errorf("update roster: %w", err)
	}

	s.log.Info().Str("course_id", course.ID).Str("student_id", ident.UserID.String()).Msg("Student joined course")
	return course, nil
}

// Invite records pending invitations and queues one mail per new address.
// It returns the addresses that were newly invited.
func (s *CourseService) Invite(ctx context.Context, ident model.Identity, courseID string, emails []string) ([]string, error) {
	course, err := s.access.owned(ctx, ident, courseID)
	if err != nil {
		return nil, err
	}

	added := make([]string, 0, len(emails))
	for _, raw := range emails {
		email := normalizeEmail(raw)
		if email == "" || course.HasInvitation(email) {
			continue
		}
		course.Invitations = append(course.Invitations, email)
		added = append(added, email)
	}
	if len(added) == 0 {
		return added, nil
	}

	if err := s.courseRepo.UpdateRoster(ctx, course.ID, course.StudentIDs, course.Invitations); err != nil {
		return nil, fmt.Errorf("update invitations: %w", err)
	}

	if s.queue != nil {
		batch := make([]worker.Invitation, 0, len(added))
		for _, email := range added {
			batch = append(batch, worker.Invitation{
				Email:      email,
				CourseID:   course.ID,
				CourseName: course.Name,
				Code:       course.RegistrationCode,
			})
		}
		// The invitation is already recorded; a queue outage only loses the mail.
		if err := s.queue.Enqueue(ctx, batch...); err != nil {
			s.log.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to queue invitation mails")
		}
	}

	s.log.Info().Str("course_id", course.ID).Int("count", len(added)).Msg("Students invited")
	return added, nil
}

// AcceptInvitation enrols the caller and clears their pending invitation.
func (s *CourseService) AcceptInvitation(ctx context.Context, ident model.Identity, courseID string) (*model.Course, error) {
	course, email, err := s.invited(ctx, ident, courseID)
	if err != nil {
		return nil, err
	}
	course.StudentIDs = appendUnique(course.StudentIDs, ident.UserID)
	course.Invitations = removeEmail(course.Invitations, email)
	if err := s.courseRepo.UpdateRoster(ctx, course.ID, course.StudentIDs, course.Invitations); err != nil {
		return nil, fmt.Errorf("update roster: %w", err)
	}
	s.log.Info().Str("course_id", course.ID).Str("student_id", ident.UserID.String()).Msg("Invitation accepted")
	return course, nil
}

// RejectInvitation clears the caller's pending invitation.
func (s *CourseService) RejectInvitation(ctx context.Context, ident model.Identity, courseID string) error {
	course, email, err := s.invited(ctx, ident, courseID)
	if err != nil {
		return err
	}
	course.Invitations = removeEmail(course.Invitations, email)
	if err := s.courseRepo.UpdateRoster(ctx, course.ID, course.StudentIDs, course.Invitations); err != nil {
		return fmt.Errorf("update invitations: %w", err)
	}
	return nil
}

func (s *CourseService) invited(ctx context.Context, ident model.Identity, courseID string) (*model.Course, string, error) {
	if ident.IsTeacher() {
		return nil, "", ErrStudentOnly
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, "", fmt.Errorf("get course: %w", err)
	}
	email := normalizeEmail(ident.Email)
	if email == "" || !course.HasInvitation(email) {
		return nil, "", ErrNotInvited
	}
	return course, email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func appendUnique(ids []model.UserID, id model.UserID) []model.UserID {
	if model.ContainsUser(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeEmail(emails []string, email string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}
