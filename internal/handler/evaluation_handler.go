package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// EvaluationHandler handles peer evaluation submissions.
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
	log               zerolog.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evaluationService *service.EvaluationService, log zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		log:               log.With().Str("component", "evaluation_handler").Logger(),
	}
}

// GetPeers godoc
// GET /api/v1/assessments/:id/peers
// Returns the caller's groupmates and the ratings already given to them.
func (h *EvaluationHandler) GetPeers(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	form, err := h.evaluationService.Peers(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, form)
}

// SubmitEvaluations godoc
// POST /api/v1/assessments/:id/evaluations
// Records a batch of new evaluations.
func (h *EvaluationHandler) SubmitEvaluations(c *gin.Context) {
	h.write(c, false)
}

// EditEvaluations godoc
// PUT /api/v1/assessments/:id/evaluations
// Replaces the ratings of evaluations the caller already submitted.
func (h *EvaluationHandler) EditEvaluations(c *gin.Context) {
	h.write(c, true)
}

func (h *EvaluationHandler) write(c *gin.Context, edit bool) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.SubmitEvaluationsRequest
	if !bind(c, &req) {
		return
	}

	submit := h.evaluationService.Submit
	status := http.StatusCreated
	if edit {
		submit = h.evaluationService.Edit
		status = http.StatusOK
	}

	report, err := submit(c.Request.Context(), ident, c.Param("id"), req.Evaluations)
	if err != nil {
		respondStepError(c, h.log, err, report, nil)
		return
	}

	response.Success(c, status, gin.H{"report": report})
}
