package engine

import (
	"fmt"

	"github.com/stemsi/coeval-backend/internal/model"
)

// Bounds of a single criterion rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Criteria lists the rated criteria in display order.
var Criteria = []string{"punctuality", "contributions", "commitment", "attitude"}

// ValidateRatings checks that every criterion is present and inside
// [MinRating, MaxRating].
func ValidateRatings(r model.Ratings) error {
	fields := map[string]string{}
	check := func(name string, v int) {
		switch {
		case v == 0:
			fields[name] = "es obligatorio"
		case v < MinRating || v > MaxRating:
			fields[name] = fmt.Sprintf("debe estar entre %d y %d", MinRating, MaxRating)
		}
	}
	check("punctuality", r.Punctuality)
	check("contributions", r.Contributions)
	check("commitment", r.Commitment)
	check("attitude", r.Attitude)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateBatch checks every entry of a submission before anything is sent
// to storage: ratings in range, at least one entry, and no evaluatee twice.
func ValidateBatch(inputs []model.RatingInput) error {
	if len(inputs) == 0 {
		return &ValidationError{Fields: map[string]string{"evaluations": "es obligatorio"}}
	}

	fields := map[string]string{}
	seen := make(map[model.UserID]struct{}, len(inputs))
	for i, in := range inputs {
		prefix := fmt.Sprintf("evaluations[%d]", i)
		if in.EvaluateeID == "" {
			fields[prefix+".evaluatee_id"] = "es obligatorio"
		} else if _, dup := seen[in.EvaluateeID]; dup {
			fields[prefix+".evaluatee_id"] = "está repetido"
		}
		seen[in.EvaluateeID] = struct{}{}

		if err := ValidateRatings(in.Ratings()); err != nil {
			for k, v := range err.(*ValidationError).Fields {
				fields[prefix+"."+k] = v
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
