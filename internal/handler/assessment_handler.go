package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// AssessmentHandler handles assessment windows. Every assessment is returned
// with its state and remaining-time label as of the request.
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
	log               zerolog.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *service.AssessmentService, log zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
		log:               log.With().Str("component", "assessment_handler").Logger(),
	}
}

// ListAssessments godoc
// GET /api/v1/activities/:id/assessments
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	views, err := h.assessmentService.List(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessments": views})
}

// CreateAssessment godoc
// POST /api/v1/activities/:id/assessments
// Launches an assessment starting at the current minute.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateAssessmentRequest
	if !bind(c, &req) {
		return
	}

	view, err := h.assessmentService.Create(c.Request.Context(), ident, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment": view})
}

// GetAssessment godoc
// GET /api/v1/assessments/:id
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	view, err := h.assessmentService.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": view})
}

// CancelAssessment godoc
// POST /api/v1/assessments/:id/cancel
func (h *AssessmentHandler) CancelAssessment(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	view, err := h.assessmentService.Cancel(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": view})
}

// SetGradesVisibility godoc
// PUT /api/v1/assessments/:id/grades-visibility
func (h *AssessmentHandler) SetGradesVisibility(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.GradesVisibilityRequest
	if !bind(c, &req) {
		return
	}

	view, err := h.assessmentService.SetGradesVisible(c.Request.Context(), ident, c.Param("id"), *req.Visible)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": view})
}
