package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
)

// RequireTeacher lets only teacher identities through.
func RequireTeacher() gin.HandlerFunc {
	return requireRole(model.RoleTeacher, response.ErrTeacherAccessOnly)
}

// RequireStudent lets only student identities through.
func RequireStudent() gin.HandlerFunc {
	return requireRole(model.RoleStudent, response.ErrStudentAccessOnly)
}

func requireRole(role model.Role, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if ident.Role != role {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}
