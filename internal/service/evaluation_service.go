package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/metrics"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
)

// PeerForm is what a student sees before rating their groupmates.
type PeerForm struct {
	Assessment engine.WindowView `json:"assessment"`
	GroupID    string            `json:"group_id"`
	GroupName  string            `json:"group_name"`
	Peers      []model.Peer      `json:"peers"`
	// Completed is true once every groupmate has been rated.
	Completed bool `json:"completed"`
}

// EvaluationService records peer evaluations.
type EvaluationService struct {
	assessments *AssessmentService
	groupRepo   *repository.GroupRepository
	evalRepo    *repository.PeerEvaluationRepository
	ids         engine.IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService. m may be nil.
func NewEvaluationService(
	assessments *AssessmentService,
	groupRepo *repository.GroupRepository,
	evalRepo *repository.PeerEvaluationRepository,
	ids engine.IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	log zerolog.Logger,
) *EvaluationService {
	return &EvaluationService{
		assessments: assessments,
		groupRepo:   groupRepo,
		evalRepo:    evalRepo,
		ids:         ids,
		clock:       clock,
		metrics:     m,
		log:         log.With().Str("component", "evaluation_service").Logger(),
	}
}

// round is the state an evaluator acts on: the assessment, their group in
// the activity's category and the evaluations already recorded.
type round struct {
	assessment *model.Assessment
	group      *model.Group
	existing   []model.PeerEvaluation
}

func (s *EvaluationService) loadRound(ctx context.Context, ident model.Identity, assessmentID string) (*round, error) {
	if ident.IsTeacher() {
		return nil, ErrStudentOnly
	}
	assessment, activity, err := s.assessments.load(ctx, ident, assessmentID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListByCategory(ctx, activity.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	existing, err := s.evalRepo.ListByAssessment(ctx, assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	r := &round{assessment: assessment, existing: existing}
	if g, ok := model.FindGroupOf(groups, ident.UserID); ok {
		r.group = g
	}
	return r, nil
}

// Peers lists the caller's groupmates with what they already rated.
func (s *EvaluationService) Peers(ctx context.Context, ident model.Identity, assessmentID string) (*PeerForm, error) {
	r, err := s.loadRound(ctx, ident, assessmentID)
	if err != nil {
		return nil, err
	}
	if r.group == nil {
		return nil, ErrNoGroup
	}

	form := &PeerForm{
		Assessment: engine.ViewAt(*r.assessment, s.clock.now()),
		GroupID:    r.group.ID,
		GroupName:  r.group.Name,
		Peers:      make([]model.Peer, 0, r.group.Size()),
		Completed:  true,
	}
	for _, id := range r.group.MemberIDs {
		if id == ident.UserID {
			continue
		}
		peer := model.Peer{StudentID: id}
		if e, ok := engine.FindEvaluation(r.existing, r.assessment.ID, ident.UserID, id); ok {
			ratings := e.Ratings
			peer.Evaluated = true
			peer.Ratings = &ratings
		} else {
			form.Completed = false
		}
		form.Peers = append(form.Peers, peer)
	}
	return form, nil
}

// Submit records a batch of new evaluations. The whole batch is validated and
// checked for eligibility before the first write; writes then run one per
// evaluatee in order and stop at the first failure.
func (s *EvaluationService) Submit(ctx context.Context, ident model.Identity, assessmentID string, inputs []model.RatingInput) (engine.Report, error) {
	if err := engine.ValidateBatch(inputs); err != nil {
		return engine.Report{}, err
	}
	r, err := s.loadRound(ctx, ident, assessmentID)
	if err != nil {
		return engine.Report{}, err
	}

	now := s.clock.now()
	tasks := make([]engine.Task, 0, len(inputs))
	for _, in := range inputs {
		d := engine.CanSubmit(s.submission(r, ident.UserID, in.EvaluateeID, now))
		if !d.Allowed {
			return engine.Report{}, s.deny(r.assessment.ID, in.EvaluateeID, d)
		}

		e := model.PeerEvaluation{
			ID:           s.ids.NewID(),
			AssessmentID: r.assessment.ID,
			EvaluatorID:  ident.UserID,
			EvaluateeID:  in.EvaluateeID,
			Ratings:      in.Ratings(),
		}
		tasks = append(tasks, engine.Task{
			Op:       "create_evaluation",
			EntityID: e.ID,
			Run:      func(ctx context.Context) error { return s.evalRepo.Create(ctx, &e) },
		})
	}

	report, err := engine.RunSequential(ctx, tasks, s.stepLogger(r.assessment.ID))
	s.metrics.Submitted(report.Completed())
	if err != nil {
		return report, err
	}

	s.log.Info().
		Str("assessment_id", r.assessment.ID).
		Str("evaluator_id", ident.UserID.String()).
		Int("count", len(tasks)).
		Msg("Evaluations submitted")
	return report, nil
}

// Edit rewrites the caller's existing evaluations while the window is open.
func (s *EvaluationService) Edit(ctx context.Context, ident model.Identity, assessmentID string, inputs []model.RatingInput) (engine.Report, error) {
	if err := engine.ValidateBatch(inputs); err != nil {
		return engine.Report{}, err
	}
	r, err := s.loadRound(ctx, ident, assessmentID)
	if err != nil {
		return engine.Report{}, err
	}

	now := s.clock.now()
	tasks := make([]engine.Task, 0, len(inputs))
	for _, in := range inputs {
		d := engine.CanEdit(s.submission(r, ident.UserID, in.EvaluateeID, now))
		if !d.Allowed {
			return engine.Report{}, s.deny(r.assessment.ID, in.EvaluateeID, d)
		}
		existing, ok := engine.FindEvaluation(r.existing, r.assessment.ID, ident.UserID, in.EvaluateeID)
		if !ok {
			return engine.Report{}, fmt.Errorf("%w: %s", ErrEvaluationMissing, in.EvaluateeID)
		}

		id, ratings := existing.ID, in.Ratings()
		tasks = append(tasks, engine.Task{
			Op:       "update_evaluation",
			EntityID: id,
			Run:      func(ctx context.Context) error { return s.evalRepo.UpdateRatings(ctx, id, ratings) },
		})
	}

	report, err := engine.RunSequential(ctx, tasks, s.stepLogger(r.assessment.ID))
	s.metrics.Edited(report.Completed())
	if err != nil {
		return report, err
	}
	s.log.Info().
		Str("assessment_id", r.assessment.ID).
		Str("evaluator_id", ident.UserID.String()).
		Int("count", len(tasks)).
		Msg("Evaluations edited")
	return report, nil
}

func (s *EvaluationService) submission(r *round, evaluator, evaluatee model.UserID, now time.Time) engine.SubmissionCheck {
	return engine.SubmissionCheck{
		Assessment:  r.assessment,
		EvaluatorID: evaluator,
		EvaluateeID: evaluatee,
		Existing:    r.existing,
		Group:       r.group,
		Now:         now,
	}
}

func (s *EvaluationService) deny(assessmentID string, evaluatee model.UserID, d engine.Decision) error {
	s.metrics.Denied(string(d.Reason))
	s.log.Info().
		Str("assessment_id", assessmentID).
		Str("evaluatee_id", evaluatee.String()).
		Str("reason", string(d.Reason)).
		Msg("Evaluation denied")
	return &engine.DeniedError{EvaluateeID: evaluatee.String(), Reason: d.Reason}
}

func (s *EvaluationService) stepLogger(assessmentID string) engine.Progress {
	return func(r engine.TaskResult) {
		if r.Done {
			return
		}
		s.log.Error().
			Str("assessment_id", assessmentID).
			Int("step", r.Step).
			Str("op", r.Op).
			Str("entity_id", r.EntityID).
			Str("error", r.Error).
			Msg("Evaluation write failed")
	}
}
