package engine

import (
	"sort"

	"github.com/stemsi/coeval-backend/internal/model"
)

// AggregateForStudent reduces the evaluations received by student into
// per-criterion means. With nothing received every average is zero and the
// count is zero, which callers show as "N/A".
func AggregateForStudent(student model.UserID, evaluations []model.PeerEvaluation) model.StudentScore {
	score := model.StudentScore{StudentID: student}

	var punctuality, contributions, commitment, attitude float64
	for _, e := range evaluations {
		if e.EvaluateeID != student {
			continue
		}
		punctuality += float64(e.Punctuality)
		contributions += float64(e.Contributions)
		commitment += float64(e.Commitment)
		attitude += float64(e.Attitude)
		score.EvaluationsCount++
	}
	if score.EvaluationsCount == 0 {
		return score
	}

	n := float64(score.EvaluationsCount)
	score.AveragePunctuality = punctuality / n
	score.AverageContributions = contributions / n
	score.AverageCommitment = commitment / n
	score.AverageAttitude = attitude / n
	score.OverallAverage = (score.AveragePunctuality +
		score.AverageContributions +
		score.AverageCommitment +
		score.AverageAttitude) / 4
	return score
}

// AggregateForCourse scores every member of the category's groups,
// including students nobody evaluated, ordered by overall average from
// highest to lowest. Ties keep roster order.
func AggregateForCourse(groups []model.Group, evaluations []model.PeerEvaluation) []model.StudentScore {
	roster := UniqueMembers(groups)
	scores := make([]model.StudentScore, 0, len(roster))
	for _, id := range roster {
		scores = append(scores, AggregateForStudent(id, evaluations))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallAverage > scores[j].OverallAverage
	})
	return scores
}

// FilterByAssessment keeps the evaluations of one assessment.
func FilterByAssessment(evaluations []model.PeerEvaluation, assessmentID string) []model.PeerEvaluation {
	out := make([]model.PeerEvaluation, 0, len(evaluations))
	for _, e := range evaluations {
		if e.AssessmentID == assessmentID {
			out = append(out, e)
		}
	}
	return out
}
