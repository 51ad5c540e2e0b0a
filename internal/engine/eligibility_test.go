package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/coeval-backend/internal/model"
)

func baseCheck() SubmissionCheck {
	g := group("g1", "x", "y", "z")
	return SubmissionCheck{
		Assessment:  openAssessment(60),
		EvaluatorID: "x",
		EvaluateeID: "y",
		Group:       &g,
		Now:         t0.Add(10 * time.Minute),
	}
}

func TestCanSubmit(t *testing.T) {
	other := group("g2", "w")

	tests := []struct {
		name   string
		mutate func(*SubmissionCheck)
		want   Decision
	}{
		{"allowed", func(*SubmissionCheck) {}, Allow},
		{"cancelled", func(c *SubmissionCheck) { c.Assessment.Cancelled = true }, Deny(ReasonCancelled)},
		{"not started", func(c *SubmissionCheck) { c.Now = t0.Add(-time.Second) }, Deny(ReasonNotStarted)},
		{"unscheduled", func(c *SubmissionCheck) { c.Assessment.StartAt = nil }, Deny(ReasonNotStarted)},
		{"expired", func(c *SubmissionCheck) { c.Now = t0.Add(61 * time.Minute) }, Deny(ReasonExpired)},
		{"not groupmate", func(c *SubmissionCheck) { c.EvaluateeID = "w" }, Deny(ReasonNotGroupmate)},
		{"no group", func(c *SubmissionCheck) { c.Group = nil }, Deny(ReasonNotGroupmate)},
		{"other group", func(c *SubmissionCheck) { c.Group = &other }, Deny(ReasonNotGroupmate)},
		{"already evaluated", func(c *SubmissionCheck) {
			c.Existing = []model.PeerEvaluation{{ID: "e1", AssessmentID: "a1", EvaluatorID: "x", EvaluateeID: "y"}}
		}, Deny(ReasonAlreadyEvaluated)},
		{"evaluation in other assessment", func(c *SubmissionCheck) {
			c.Existing = []model.PeerEvaluation{{ID: "e1", AssessmentID: "a2", EvaluatorID: "x", EvaluateeID: "y"}}
		}, Allow},
		{"cancel checked before expiry", func(c *SubmissionCheck) {
			c.Assessment.Cancelled = true
			c.Now = t0.Add(2 * time.Hour)
		}, Deny(ReasonCancelled)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseCheck()
			tt.mutate(&in)
			assert.Equal(t, tt.want, CanSubmit(in))
		})
	}
}

func TestCanSubmit_SelfExclusion(t *testing.T) {
	states := []func(*SubmissionCheck){
		func(*SubmissionCheck) {},
		func(c *SubmissionCheck) { c.Assessment.Cancelled = true },
		func(c *SubmissionCheck) { c.Now = t0.Add(-time.Hour) },
		func(c *SubmissionCheck) { c.Now = t0.Add(time.Hour * 3) },
		func(c *SubmissionCheck) { c.Group = nil },
	}
	for _, mutate := range states {
		in := baseCheck()
		mutate(&in)
		in.EvaluateeID = in.EvaluatorID
		assert.Equal(t, Deny(ReasonSelfEvaluation), CanSubmit(in))
	}
}

func TestCanSubmit_Deterministic(t *testing.T) {
	in := baseCheck()
	in.Existing = []model.PeerEvaluation{{AssessmentID: "a1", EvaluatorID: "x", EvaluateeID: "z"}}

	first := CanSubmit(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CanSubmit(in))
	}
}

func TestCanSubmit_DuplicateAfterSubmission(t *testing.T) {
	in := baseCheck()
	assert.True(t, CanSubmit(in).Allowed)

	in.Existing = append(in.Existing, model.PeerEvaluation{ID: "e1", AssessmentID: "a1", EvaluatorID: "x", EvaluateeID: "y"})
	assert.Equal(t, Deny(ReasonAlreadyEvaluated), CanSubmit(in))
}

func TestCanEdit(t *testing.T) {
	in := baseCheck()
	in.Existing = []model.PeerEvaluation{{ID: "e1", AssessmentID: "a1", EvaluatorID: "x", EvaluateeID: "y"}}
	assert.Equal(t, Allow, CanEdit(in))

	in.Now = t0.Add(2 * time.Hour)
	assert.Equal(t, Deny(ReasonExpired), CanEdit(in))
}

func TestDenyReasonMessage(t *testing.T) {
	for _, r := range []DenyReason{ReasonSelfEvaluation, ReasonCancelled, ReasonNotStarted, ReasonExpired, ReasonNotGroupmate, ReasonAlreadyEvaluated} {
		assert.NotEqual(t, DenyReason("").Message(), r.Message(), string(r))
	}
}
