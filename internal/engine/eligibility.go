package engine

import (
	"time"

	"github.com/stemsi/coeval-backend/internal/model"
)

// DenyReason names why a submission is refused.
type DenyReason string

const (
	ReasonSelfEvaluation   DenyReason = "self-evaluation"
	ReasonCancelled        DenyReason = "cancelled"
	ReasonNotStarted       DenyReason = "not-started"
	ReasonExpired          DenyReason = "expired"
	ReasonNotGroupmate     DenyReason = "not-groupmate"
	ReasonAlreadyEvaluated DenyReason = "already-evaluated"
)

// Message returns the user-facing text for the reason.
func (r DenyReason) Message() string {
	switch r {
	case ReasonSelfEvaluation:
		return "No puedes evaluarte a ti mismo."
	case ReasonCancelled:
		return "La evaluación fue cancelada."
	case ReasonNotStarted:
		return "La evaluación aún no ha comenzado."
	case ReasonExpired:
		return "El tiempo de la evaluación ha finalizado."
	case ReasonNotGroupmate:
		return "Solo puedes evaluar a compañeros de tu grupo."
	case ReasonAlreadyEvaluated:
		return "Ya evaluaste a este compañero."
	default:
		return "No es posible enviar la evaluación."
	}
}

// Decision is the outcome of an eligibility check.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
}

// Allow is the permitting decision.
var Allow = Decision{Allowed: true}

// Deny returns a refusing decision with reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// SubmissionCheck bundles the inputs of an eligibility decision.
type SubmissionCheck struct {
	Assessment  *model.Assessment
	EvaluatorID model.UserID
	EvaluateeID model.UserID
	// Existing are the evaluations already recorded for the assessment.
	Existing []model.PeerEvaluation
	// Group is the evaluator's group in the activity's category; nil when
	// the evaluator has none.
	Group *model.Group
	Now   time.Time
}

// CanSubmit decides whether a new evaluation may be recorded. It is a pure
// function of its input and returns the first failing reason.
//
// Self-evaluation is rejected before any window check so the answer for an
// evaluator rating themselves never depends on assessment state.
func CanSubmit(in SubmissionCheck) Decision {
	if in.EvaluatorID == in.EvaluateeID {
		return Deny(ReasonSelfEvaluation)
	}
	if d := windowDecision(in.Assessment, in.Now); !d.Allowed {
		return d
	}
	if in.Group == nil || !in.Group.HasMember(in.EvaluateeID) {
		return Deny(ReasonNotGroupmate)
	}
	if HasEvaluated(in.Existing, in.Assessment.ID, in.EvaluatorID, in.EvaluateeID) {
		return Deny(ReasonAlreadyEvaluated)
	}
	return Allow
}

// CanEdit decides whether an existing evaluation may be rewritten. Editing
// goes through the same window and group checks but requires the record to
// exist.
func CanEdit(in SubmissionCheck) Decision {
	if in.EvaluatorID == in.EvaluateeID {
		return Deny(ReasonSelfEvaluation)
	}
	if d := windowDecision(in.Assessment, in.Now); !d.Allowed {
		return d
	}
	if in.Group == nil || !in.Group.HasMember(in.EvaluateeID) {
		return Deny(ReasonNotGroupmate)
	}
	return Allow
}

func windowDecision(a *model.Assessment, now time.Time) Decision {
	switch StateAt(a, now) {
	case WindowCancelled:
		return Deny(ReasonCancelled)
	case WindowNotStarted, WindowUnscheduled:
		return Deny(ReasonNotStarted)
	case WindowExpired:
		return Deny(ReasonExpired)
	}
	return Allow
}

// HasEvaluated reports whether existing holds a record for the triple.
func HasEvaluated(existing []model.PeerEvaluation, assessmentID string, evaluator, evaluatee model.UserID) bool {
	_, ok := FindEvaluation(existing, assessmentID, evaluator, evaluatee)
	return ok
}

// FindEvaluation returns the record for the triple, if any.
func FindEvaluation(existing []model.PeerEvaluation, assessmentID string, evaluator, evaluatee model.UserID) (*model.PeerEvaluation, bool) {
	for i := range existing {
		e := &existing[i]
		if e.AssessmentID == assessmentID && e.EvaluatorID == evaluator && e.EvaluateeID == evaluatee {
			return e, true
		}
	}
	return nil, false
}
