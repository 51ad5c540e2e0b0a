package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/export"
	"github.com/stemsi/coeval-backend/internal/model"
)

func gradedRound(t *testing.T, e *env) *engine.WindowView {
	t.Helper()
	a := evalRound(t, e)
	_, err := e.evaluationSvc.Submit(e.ctx, student("s1"), a.ID, []model.RatingInput{ratings("s2", 4), ratings("s3", 5)})
	require.NoError(t, err)
	_, err = e.evaluationSvc.Submit(e.ctx, student("s3"), a.ID, []model.RatingInput{ratings("s2", 2)})
	require.NoError(t, err)
	return a
}

func TestGradeService_StudentGradeHiddenUntilReleased(t *testing.T) {
	e := newEnv(t)
	a := gradedRound(t, e)

	_, err := e.gradeSvc.StudentGrade(e.ctx, student("s2"), a.ID)
	assert.ErrorIs(t, err, ErrGradesHidden)

	_, err = e.assessmentSvc.SetGradesVisible(e.ctx, teacher, a.ID, true)
	require.NoError(t, err)

	g, err := e.gradeSvc.StudentGrade(e.ctx, student("s2"), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, g.EvaluationsCount)
	assert.InDelta(t, 3.0, g.OverallAverage, 1e-9)
	assert.Equal(t, engine.BandFair, g.Band)
	assert.Equal(t, "3", g.Display)
	assert.Equal(t, "3.00", g.Detailed)
}

func TestGradeService_StudentWithoutEvaluations(t *testing.T) {
	e := newEnv(t)
	a := gradedRound(t, e)
	_, err := e.assessmentSvc.SetGradesVisible(e.ctx, teacher, a.ID, true)
	require.NoError(t, err)

	g, err := e.gradeSvc.StudentGrade(e.ctx, student("s4"), a.ID)
	require.NoError(t, err)
	assert.False(t, g.Graded())
	assert.Equal(t, "N/A", g.Display)
	assert.Equal(t, engine.BandUngraded, g.Band)
}

func TestGradeService_CourseGradesSorted(t *testing.T) {
	e := newEnv(t)
	a := gradedRound(t, e)

	table, err := e.gradeSvc.CourseGrades(e.ctx, teacher, a.ID)
	require.NoError(t, err)

	require.Len(t, table.Grades, 4)
	assert.Equal(t, model.UserID("s3"), table.Grades[0].StudentID)
	assert.Equal(t, model.UserID("s2"), table.Grades[1].StudentID)
	// Ungraded students keep roster order at the bottom.
	assert.Equal(t, model.UserID("s1"), table.Grades[2].StudentID)
	assert.Equal(t, model.UserID("s4"), table.Grades[3].StudentID)

	_, err = e.gradeSvc.CourseGrades(e.ctx, outsider, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGradeService_Export(t *testing.T) {
	e := newEnv(t)
	a := gradedRound(t, e)

	var buf bytes.Buffer
	name, err := e.gradeSvc.Export(e.ctx, teacher, a.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "calificaciones_"+a.ID+".xlsx", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	first, err := f.GetCellValue(export.GradesSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "s3", first)
}
