package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
	"github.com/stemsi/coeval-backend/internal/store"
)

// serviceErrors maps domain sentinels to their status and code.
var serviceErrors = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrTeacherOnly, http.StatusForbidden, response.ErrTeacherAccessOnly},
	{service.ErrStudentOnly, http.StatusForbidden, response.ErrStudentAccessOnly},
	{service.ErrForbidden, http.StatusForbidden, response.ErrForbidden},
	{service.ErrCodeExhausted, http.StatusServiceUnavailable, response.ErrCodeUnavailable},
	{service.ErrNotInvited, http.StatusNotFound, response.ErrNotInvited},
	{service.ErrRandomCategory, http.StatusConflict, response.ErrRandomGroups},
	{service.ErrAlreadyInGroup, http.StatusConflict, response.ErrAlreadyInGroup},
	{service.ErrGroupFull, http.StatusConflict, response.ErrGroupFull},
	{service.ErrNotInGroup, http.StatusConflict, response.ErrNotInGroup},
	{service.ErrNoGroup, http.StatusNotFound, response.ErrNoGroup},
	{service.ErrCategoryMismatch, http.StatusBadRequest, response.ErrInvalidPayload},
	{service.ErrGradesHidden, http.StatusForbidden, response.ErrGradesHidden},
	{service.ErrEvaluationMissing, http.StatusNotFound, response.ErrEvaluationMissing},
}

// respondError writes the envelope for err. Unexpected errors are logged and
// reported as internal.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var validation *engine.ValidationError
	if errors.As(err, &validation) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validation.Fields)
		return
	}

	var denied *engine.DeniedError
	if errors.As(err, &denied) {
		response.FailWithReason(c, http.StatusUnprocessableEntity, response.ErrEvaluationDenied,
			string(denied.Reason), denied.Reason.Message())
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	var remote *store.RemoteError
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, store.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, store.ErrUnauthorized):
		log.Error().Err(err).Msg("Record store rejected credentials")
		response.Fail(c, http.StatusBadGateway, response.ErrStoreUnauthorized)
	case errors.As(err, &remote):
		log.Error().Err(err).Int("status", remote.Status).Msg("Record store error")
		response.Fail(c, http.StatusBadGateway, response.ErrRemote)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// partialFailure is the payload of an interrupted multi-step write.
type partialFailure struct {
	FailedStep int           `json:"failed_step"`
	TotalSteps int           `json:"total_steps"`
	Report     engine.Report `json:"report"`
	Extra      interface{}   `json:"result,omitempty"`
}

// respondStepError reports an interrupted task list with the completed
// prefix. Other errors fall through to respondError.
func respondStepError(c *gin.Context, log zerolog.Logger, err error, report engine.Report, extra interface{}) {
	var step *engine.StepError
	if !errors.As(err, &step) {
		respondError(c, log, err)
		return
	}
	log.Error().Err(err).
		Int("step", step.Step).
		Str("op", step.Op).
		Str("entity_id", step.EntityID).
		Msg("Multi-step write interrupted")

	status := http.StatusBadGateway
	if errors.Is(err, store.ErrConflict) {
		status = http.StatusConflict
	}
	response.FailWithData(c, status, response.ErrPartialFailure, partialFailure{
		FailedStep: step.Step,
		TotalSteps: step.Total,
		Report:     report,
		Extra:      extra,
	})
}
