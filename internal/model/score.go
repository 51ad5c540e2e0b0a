package model

// StudentScore is the derived aggregate of the evaluations a student received
// in one assessment. It is never persisted.
type StudentScore struct {
	StudentID            UserID  `json:"student_id"`
	AveragePunctuality   float64 `json:"average_punctuality"`
	AverageContributions float64 `json:"average_contributions"`
	AverageCommitment    float64 `json:"average_commitment"`
	AverageAttitude      float64 `json:"average_attitude"`
	OverallAverage       float64 `json:"overall_average"`
	EvaluationsCount     int     `json:"evaluations_count"`
}

// Graded reports whether the score was computed from at least one evaluation.
func (s StudentScore) Graded() bool { return s.EvaluationsCount > 0 }
