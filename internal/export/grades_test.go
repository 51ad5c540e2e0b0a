package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stemsi/coeval-backend/internal/model"
)

func TestWriteGrades(t *testing.T) {
	a := &model.Assessment{ID: "a1", Title: "Sprint 1"}
	scores := []model.StudentScore{
		{StudentID: "s1", AveragePunctuality: 4, AverageContributions: 3.5, AverageCommitment: 3, AverageAttitude: 3, OverallAverage: 3.375, EvaluationsCount: 2},
		{StudentID: "s2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGrades(&buf, a, scores, map[model.UserID]string{"s1": "Ana"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue(GradesSheet, "A1")
	assert.Equal(t, "Sprint 1", title)

	name, _ := f.GetCellValue(GradesSheet, "A4")
	assert.Equal(t, "Ana", name)
	overall, _ := f.GetCellValue(GradesSheet, "F4")
	assert.Equal(t, "3.38", overall)
	band, _ := f.GetCellValue(GradesSheet, "H4")
	assert.Equal(t, "Regular", band)

	missing, _ := f.GetCellValue(GradesSheet, "A5")
	assert.Equal(t, "s2", missing)
	na, _ := f.GetCellValue(GradesSheet, "B5")
	assert.Equal(t, "N/A", na)
	ungraded, _ := f.GetCellValue(GradesSheet, "H5")
	assert.Equal(t, "Sin calificar", ungraded)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "calificaciones_a1.xlsx", FileName(&model.Assessment{ID: "a1"}))
}
