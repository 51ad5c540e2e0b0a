package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// CategoryHandler handles categories. Creating or reshaping a category
// rewrites its groups.
type CategoryHandler struct {
	categoryService *service.CategoryService
	log             zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		log:             log.With().Str("component", "category_handler").Logger(),
	}
}

// ListCategories godoc
// GET /api/v1/courses/:id/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory godoc
// POST /api/v1/courses/:id/categories
// Creates a category and generates its groups.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateCategoryRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.categoryService.Create(c.Request.Context(), ident, c.Param("id"), req)
	if err != nil {
		var report engine.Report
		if result != nil {
			report = result.Report
		}
		respondStepError(c, h.log, err, report, result)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetCategory godoc
// GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"category": category})
}

// UpdateCategory godoc
// PATCH /api/v1/categories/:id
// Updates a category. A change of mode or capacity regroups the roster.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.UpdateCategoryRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.categoryService.Update(c.Request.Context(), ident, c.Param("id"), req)
	if err != nil {
		var report engine.Report
		if result != nil {
			report = result.Report
		}
		respondStepError(c, h.log, err, report, result)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DeleteCategory godoc
// DELETE /api/v1/categories/:id
// Deletes the category's groups, then the category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	report, err := h.categoryService.Delete(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondStepError(c, h.log, err, report, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}
