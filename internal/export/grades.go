package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
)

// GradesSheet is the sheet name of the grades workbook.
const GradesSheet = "Calificaciones"

var gradeHeaders = []string{
	"Estudiante", "Puntualidad", "Contribuciones", "Compromiso", "Actitud",
	"Promedio", "Evaluaciones", "Desempeño",
}

// GradesWorkbook builds the teacher grade table of one assessment.
// names maps student ids to display names; missing names fall back to the id.
func GradesWorkbook(assessment *model.Assessment, scores []model.StudentScore, names map[model.UserID]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), GradesSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	index, err := f.GetSheetIndex(GradesSheet)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetCellValue(GradesSheet, "A1", assessment.Title); err != nil {
		return nil, err
	}
	for i, header := range gradeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(GradesSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, s := range scores {
		row := i + 4
		name := names[s.StudentID]
		if name == "" {
			name = string(s.StudentID)
		}
		values := []any{name}
		if s.Graded() {
			values = append(values,
				round2(s.AveragePunctuality),
				round2(s.AverageContributions),
				round2(s.AverageCommitment),
				round2(s.AverageAttitude),
				round2(s.OverallAverage),
			)
		} else {
			values = append(values, "N/A", "N/A", "N/A", "N/A", "N/A")
		}
		values = append(values, s.EvaluationsCount, engine.Classify(s.OverallAverage).Label)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(GradesSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// WriteGrades builds the workbook and writes it to w.
func WriteGrades(w io.Writer, assessment *model.Assessment, scores []model.StudentScore, names map[model.UserID]string) error {
	f, err := GradesWorkbook(assessment, scores, names)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// FileName returns the download name of an assessment's workbook.
func FileName(assessment *model.Assessment) string {
	return fmt.Sprintf("calificaciones_%s.xlsx", assessment.ID)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
