package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/coeval-backend/internal/middleware"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/validator"
)

// caller returns the authenticated identity or aborts with 401.
func caller(c *gin.Context) (model.Identity, bool) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return model.Identity{}, false
	}
	return ident, true
}

// bind decodes and validates the JSON body or writes a 400.
func bind(c *gin.Context, dst interface{}) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}
