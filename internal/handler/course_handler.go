package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/response"
	"github.com/stemsi/coeval-backend/internal/service"
)

// CourseHandler handles courses, enrollment and invitations.
type CourseHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

// ListCourses godoc
// GET /api/v1/courses
// Teachers get the courses they own; students the courses they are enrolled in.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	var (
		courses []model.Course
		err     error
	)
	if ident.IsTeacher() {
		courses, err = h.courseService.ListForTeacher(c.Request.Context(), ident)
	} else {
		courses, err = h.courseService.ListForStudent(c.Request.Context(), ident)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateCourse godoc
// POST /api/v1/courses
// Creates a course with a fresh registration code.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateCourseRequest
	if !bind(c, &req) {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// GetCourse godoc
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// JoinCourse godoc
// POST /api/v1/courses/join
// Enrolls the calling student using a registration code.
func (h *CourseHandler) JoinCourse(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.JoinCourseRequest
	if !bind(c, &req) {
		return
	}

	course, err := h.courseService.Join(c.Request.Context(), ident, req.RegistrationCode)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// InviteStudents godoc
// POST /api/v1/courses/:id/invitations
// Records invitations and queues the invitation emails.
func (h *CourseHandler) InviteStudents(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}
	var req model.InviteStudentsRequest
	if !bind(c, &req) {
		return
	}

	added, err := h.courseService.Invite(c.Request.Context(), ident, c.Param("id"), req.Emails)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invited": added})
}

// ListInvitations godoc
// GET /api/v1/invitations
// Lists the courses that invited the calling student's email.
func (h *CourseHandler) ListInvitations(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListInvitations(c.Request.Context(), ident)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// AcceptInvitation godoc
// POST /api/v1/courses/:id/invitations/accept
func (h *CourseHandler) AcceptInvitation(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	course, err := h.courseService.AcceptInvitation(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// RejectInvitation godoc
// POST /api/v1/courses/:id/invitations/reject
func (h *CourseHandler) RejectInvitation(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		return
	}

	if err := h.courseService.RejectInvitation(c.Request.Context(), ident, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Invitación rechazada"})
}
