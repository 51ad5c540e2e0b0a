package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/service"
)

func sampleTable() *service.GradeTable {
	score := func(id string, avg float64, n int) service.GradeView {
		return service.GradeView{
			StudentScore: model.StudentScore{
				StudentID:            model.UserID(id),
				AveragePunctuality:   avg,
				AverageContributions: avg,
				AverageCommitment:    avg,
				AverageAttitude:      avg,
				OverallAverage:       avg,
				EvaluationsCount:     n,
			},
			Band:    engine.Classify(avg),
			Display: engine.FormatCompact(avg),
		}
	}
	return &service.GradeTable{
		Assessment: &model.Assessment{ID: "a1", Title: "Ronda 1"},
		Grades:     []service.GradeView{score("s3", 4.5, 2), score("s1", 0, 0)},
	}
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderCSV(&buf, sampleTable()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, "s3", rows[1][0])
	assert.Equal(t, "4.50", rows[1][1])
	assert.Equal(t, "2", rows[1][7])
	assert.Equal(t, "0", rows[2][7])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, sampleTable()))

	out := buf.String()
	assert.Contains(t, out, "s3")
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "4.50")
}
