package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/export"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// GradeView is a score with its presentation.
type GradeView struct {
	model.StudentScore
	Band     engine.Band `json:"band"`
	Display  string      `json:"display"`
	Detailed string      `json:"detailed"`
}

func newGradeView(score model.StudentScore) GradeView {
	return GradeView{
		StudentScore: score,
		Band:         engine.Classify(score.OverallAverage),
		Display:      engine.FormatCompact(score.OverallAverage),
		Detailed:     engine.FormatDetailed(score.OverallAverage),
	}
}

// GradeTable is the teacher view of one assessment.
type GradeTable struct {
	Assessment *model.Assessment `json:"assessment"`
	Grades     []GradeView       `json:"grades"`
}

// Scores returns the bare scores in table order.
func (t *GradeTable) Scores() []model.StudentScore {
	out := make([]model.StudentScore, 0, len(t.Grades))
	for _, g := range t.Grades {
		out = append(out, g.StudentScore)
	}
	return out
}

// GradeService derives grades from recorded evaluations. Nothing it returns
// is persisted.
type GradeService struct {
	assessments    *AssessmentService
	assessmentRepo *repository.AssessmentRepository
	activityRepo   *repository.ActivityRepository
	groupRepo      *repository.GroupRepository
	evalRepo       *repository.PeerEvaluationRepository
	log            zerolog.Logger
}

// NewGradeService creates a new GradeService.
func NewGradeService(
	assessments *AssessmentService,
	assessmentRepo *repository.AssessmentRepository,
	activityRepo *repository.ActivityRepository,
	groupRepo *repository.GroupRepository,
	evalRepo *repository.PeerEvaluationRepository,
	log zerolog.Logger,
) *GradeService {
	return &GradeService{
		assessments:    assessments,
		assessmentRepo: assessmentRepo,
		activityRepo:   activityRepo,
		groupRepo:      groupRepo,
		evalRepo:       evalRepo,
		log:            log.With().Str("component", "grade_service").Logger(),
	}
}

// StudentGrade returns the caller's own grade once the teacher made grades
// visible.
func (s *GradeService) StudentGrade(ctx context.Context, ident model.Identity, assessmentID string) (*GradeView, error) {
	if ident.IsTeacher() {
		return nil, ErrStudentOnly
	}
	assessment, _, err := s.assessments.load(ctx, ident, assessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.GradesVisible {
		return nil, ErrGradesHidden
	}
	evals, err := s.evalRepo.ListByAssessment(ctx, assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	view := newGradeView(engine.AggregateForStudent(ident.UserID, evals))
	return &view, nil
}

// CourseGrades returns the grade table of an assessment to its teacher.
func (s *GradeService) CourseGrades(ctx context.Context, ident model.Identity, assessmentID string) (*GradeTable, error) {
	assessment, err := s.assessments.owned(ctx, ident, assessmentID)
	if err != nil {
		return nil, err
	}
	return s.table(ctx, assessment)
}

// Table returns the grade table of an assessment without access checks.
// Operator tooling only.
func (s *GradeService) Table(ctx context.Context, assessmentID string) (*GradeTable, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return s.table(ctx, assessment)
}

func (s *GradeService) table(ctx context.Context, assessment *model.Assessment) (*GradeTable, error) {
	activity, err := s.activityRepo.GetByID(ctx, assessment.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	groups, err := s.groupRepo.ListByCategory(ctx, activity.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	evals, err := s.evalRepo.ListByAssessment(ctx, assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	scores := engine.AggregateForCourse(groups, evals)
	table := &GradeTable{Assessment: assessment, Grades: make([]GradeView, 0, len(scores))}
	for _, score := range scores {
		table.Grades = append(table.Grades, newGradeView(score))
	}

	s.log.Debug().
		Str("assessment_id", assessment.ID).
		Int("students", len(scores)).
		Int("evaluations", len(evals)).
		Msg("Grade table computed")
	return table, nil
}

// Export writes the teacher grade table of an assessment as a workbook and
// returns its download name.
func (s *GradeService) Export(ctx context.Context, ident model.Identity, assessmentID string, w io.Writer) (string, error) {
	table, err := s.CourseGrades(ctx, ident, assessmentID)
	if err != nil {
		return "", err
	}
	if err := export.WriteGrades(w, table.Assessment, table.Scores(), nil); err != nil {
		return "", err
	}
	return export.FileName(table.Assessment), nil
}
