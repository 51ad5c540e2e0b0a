package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// ActivityHandler handles course activities.
type ActivityHandler struct {
	activityService *service.ActivityService
	log             zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *service.ActivityService, log zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		log:             log.With().Str("component", "activity_handler").Logger(),
	}
}

// ListActivities godoc
// GET /api/v1/courses/:id/activities
// Students only see visible activities.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	activities, err := h.activityService.List(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activities": activities})
}

// CreateActivity godoc
// POST /api/v1/courses/:id/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateActivityRequest
	if !bind(c, &req) {
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), ident, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"activity": activity})
}

// GetActivity godoc
// GET /api/v1/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	activity, err := h.activityService.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activity": activity})
}

// UpdateActivity godoc
// PATCH /api/v1/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.UpdateActivityRequest
	if !bind(c, &req) {
		return
	}

	activity, err := h.activityService.Update(c.Request.Context(), ident, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activity": activity})
}

// DeleteActivity godoc
// DELETE /api/v1/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	if err := h.activityService.Delete(c.Request.Context(), ident, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Actividad eliminada"})
}
