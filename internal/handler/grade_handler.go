package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GradeHandler serves derived grades.
type GradeHandler struct {
	gradeService *service.GradeService
	log          zerolog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(gradeService *service.GradeService, log zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		gradeService: gradeService,
		log:          log.With().Str("component", "grade_handler").Logger(),
	}
}

// MyGrade godoc
// GET /api/v1/assessments/:id/grades/me
// Returns the caller's grade once the teacher made grades visible.
func (h *GradeHandler) MyGrade(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	grade, err := h.gradeService.StudentGrade(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// CourseGrades godoc
// GET /api/v1/assessments/:id/grades
// Returns every student's grade, best first.
func (h *GradeHandler) CourseGrades(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	table, err := h.gradeService.CourseGrades(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, table)
}

// ExportGrades godoc
// GET /api/v1/assessments/:id/grades/export
// Downloads the grade table as an XLSX workbook.
func (h *GradeHandler) ExportGrades(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name, err := h.gradeService.Export(c.Request.Context(), ident, c.Param("id"), &buf)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
