package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/stemsi/coeval-backend/internal/service"
)

var header = []string{"Estudiante", "Puntualidad", "Aportes", "Compromiso", "Actitud", "Promedio", "Nivel", "Evaluaciones"}

func row(g service.GradeView) []string {
	return []string{
		g.StudentID.String(),
		fmt.Sprintf("%.2f", g.AveragePunctuality),
		fmt.Sprintf("%.2f", g.AverageContributions),
		fmt.Sprintf("%.2f", g.AverageCommitment),
		fmt.Sprintf("%.2f", g.AverageAttitude),
		g.Display,
		g.Band.Label,
		strconv.Itoa(g.EvaluationsCount),
	}
}

// renderTable prints the grade table for a terminal.
func renderTable(w io.Writer, table *service.GradeTable) error {
	t := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{
				PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignRight},
			},
		},
	}))
	t.Header(header)
	for _, g := range table.Grades {
		if err := t.Append(row(g)); err != nil {
			return err
		}
	}
	t.Footer(table.Assessment.Title, "", "", "", "", "", "Total:", strconv.Itoa(len(table.Grades)))
	return t.Render()
}

// renderCSV prints the grade table for pipes and redirects.
func renderCSV(w io.Writer, table *service.GradeTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range table.Grades {
		if err := cw.Write(row(g)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
