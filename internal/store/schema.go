package store

import "fmt"

// Table names a persisted entity.
type Table string

const (
	TableCourses         Table = "courses"
	TableCategories      Table = "categories"
	TableGroups          Table = "course_groups"
	TableActivities      Table = "activities"
	TableAssessments     Table = "assessments"
	TablePeerEvaluations Table = "peer_evaluations"
)

var columns = map[Table][]string{
	TableCourses:         {"id", "name", "description", "teacher_id", "registration_code", "student_ids", "invitations", "created_at"},
	TableCategories:      {"id", "course_id", "name", "random_groups", "max_students_per_group"},
	TableGroups:          {"id", "course_id", "category_id", "name", "member_ids"},
	TableActivities:      {"id", "course_id", "category_id", "name", "description", "due_date", "visible"},
	TableAssessments:     {"id", "activity_id", "course_id", "title", "duration_minutes", "start_at", "cancelled", "grades_visible"},
	TablePeerEvaluations: {"id", "assessment_id", "evaluator_id", "evaluatee_id", "punctuality", "contributions", "commitment", "attitude"},
}

// Tables lists every known table.
func Tables() []Table {
	return []Table{TableCourses, TableCategories, TableGroups, TableActivities, TableAssessments, TablePeerEvaluations}
}

// Columns returns the known columns of t.
func Columns(t Table) ([]string, error) {
	cols, ok := columns[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, t)
	}
	return cols, nil
}

// checkColumn verifies col belongs to t.
func checkColumn(t Table, col string) error {
	cols, err := Columns(t)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if c == col {
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t, col)
}

// knownFields returns the keys of rec that are columns of t, in schema order.
func knownFields(t Table, rec Record) ([]string, error) {
	cols, err := Columns(t)
	if err != nil {
		return nil, err
	}
	for k := range rec {
		if err := checkColumn(t, k); err != nil {
			return nil, err
		}
	}
	out := make([]string, 0, len(rec))
	for _, c := range cols {
		if _, ok := rec[c]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
