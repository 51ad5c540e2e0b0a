package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// GroupHandler handles group rosters.
type GroupHandler struct {
	groupService *service.GroupService
	log          zerolog.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *service.GroupService, log zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		log:          log.With().Str("component", "group_handler").Logger(),
	}
}

// ListGroups godoc
// GET /api/v1/categories/:id/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListByCategory(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}

// AddGroup godoc
// POST /api/v1/categories/:id/groups
// Appends an empty group to a category.
func (h *GroupHandler) AddGroup(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	group, err := h.groupService.AddEmpty(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": group})
}

// MyGroup godoc
// GET /api/v1/categories/:id/my-group
func (h *GroupHandler) MyGroup(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	group, err := h.groupService.MyGroup(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": group})
}

// JoinGroup godoc
// POST /api/v1/groups/:id/join
// Self-enrollment into a group of a free-choice category.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	group, err := h.groupService.Join(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group": group})
}

// LeaveGroup godoc
// POST /api/v1/groups/:id/leave
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	if err := h.groupService.Leave(c.Request.Context(), ident, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Saliste del grupo"})
}
