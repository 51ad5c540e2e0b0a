package model

// Ratings are the four criteria a student rates a groupmate on, each in [1,5].
// A zero value means the criterion is missing.
type Ratings struct {
	Punctuality   int `json:"punctuality"`
	Contributions int `json:"contributions"`
	Commitment    int `json:"commitment"`
	Attitude      int `json:"attitude"`
}

// PeerEvaluation is one student's rating of one groupmate for one assessment.
type PeerEvaluation struct {
	ID           string `json:"id"`
	AssessmentID string `json:"assessment_id"`
	EvaluatorID  UserID `json:"evaluator_id"`
	EvaluateeID  UserID `json:"evaluatee_id"`
	Ratings
}

// RatingInput is one entry of a submission batch.
type RatingInput struct {
	EvaluateeID   UserID `json:"evaluatee_id" binding:"required"`
	Punctuality   int    `json:"punctuality" binding:"required,min=1,max=5"`
	Contributions int    `json:"contributions" binding:"required,min=1,max=5"`
	Commitment    int    `json:"commitment" binding:"required,min=1,max=5"`
	Attitude      int    `json:"attitude" binding:"required,min=1,max=5"`
}

// Ratings extracts the criteria of the input.
func (r RatingInput) Ratings() Ratings {
	return Ratings{
		Punctuality:   r.Punctuality,
		Contributions: r.Contributions,
		Commitment:    r.Commitment,
		Attitude:      r.Attitude,
	}
}

// SubmitEvaluationsRequest is the payload for submitting or editing a batch of evaluations.
type SubmitEvaluationsRequest struct {
	Evaluations []RatingInput `json:"evaluations" binding:"required,min=1,dive"`
}

// Peer is a groupmate as shown on the evaluation form.
type Peer struct {
	StudentID UserID   `json:"student_id"`
	Evaluated bool     `json:"evaluated"`
	Ratings   *Ratings `json:"ratings,omitempty"`
}
