package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/handler"
	"github.com/stemsi/coeval-backend/internal/middleware"
	"github.com/stemsi/coeval-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Course     *handler.CourseHandler
	Category   *handler.CategoryHandler
	Group      *handler.GroupHandler
	Activity   *handler.ActivityHandler
	Assessment *handler.AssessmentHandler
	Evaluation *handler.EvaluationHandler
	Grade      *handler.GradeHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// metricsHandler serves /metrics when non-nil.
func SetupRouter(
	auth middleware.Authenticator,
	handlers *Handlers,
	cfg *config.Config,
	metricsHandler http.Handler,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	if handlers.System != nil {
		router.GET("/health", handlers.System.Health)
	} else {
		router.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{"status": "ok"})
		})
	}

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Rate limiter for evaluation writes, per caller. A non-positive limit disables it.
	limitEvaluations := func(c *gin.Context) { c.Next() }
	if cfg.EvaluationRateLimit > 0 {
		limitEvaluations = middleware.NewRateLimiter(cfg.EvaluationRateLimit, time.Minute, middleware.ByIdentity).Middleware()
	}

	api := router.Group("/api/v1")
	api.Use(middleware.RequireIdentity(auth), middleware.NoStore())

	teacher := middleware.RequireTeacher()
	student := middleware.RequireStudent()

	// ─── 1. Courses & Invitations ──────────────────────────────────────
	{
		api.GET("/courses", handlers.Course.ListCourses)
		api.POST("/courses", teacher, handlers.Course.CreateCourse)
		api.POST("/courses/join", student, handlers.Course.JoinCourse)
		api.GET("/courses/:id", handlers.Course.GetCourse)
		api.POST("/courses/:id/invitations", teacher, handlers.Course.InviteStudents)
		api.POST("/courses/:id/invitations/accept", student, handlers.Course.AcceptInvitation)
		api.POST("/courses/:id/invitations/reject", student, handlers.Course.RejectInvitation)
		api.GET("/invitations", student, handlers.Course.ListInvitations)
	}

	// ─── 2. Categories & Groups ────────────────────────────────────────
	{
		api.GET("/courses/:id/categories", handlers.Category.ListCategories)
		api.POST("/courses/:id/categories", teacher, handlers.Category.CreateCategory)
		api.GET("/categories/:id", handlers.Category.GetCategory)
		api.PATCH("/categories/:id", teacher, handlers.Category.UpdateCategory)
		api.DELETE("/categories/:id", teacher, handlers.Category.DeleteCategory)

		api.GET("/categories/:id/groups", handlers.Group.ListGroups)
		api.POST("/categories/:id/groups", teacher, handlers.Group.AddGroup)
		api.GET("/categories/:id/my-group", student, handlers.Group.MyGroup)
		api.POST("/groups/:id/join", student, handlers.Group.JoinGroup)
		api.POST("/groups/:id/leave", student, handlers.Group.LeaveGroup)
	}

	// ─── 3. Activities & Assessments ───────────────────────────────────
	{
		api.GET("/courses/:id/activities", handlers.Activity.ListActivities)
		api.POST("/courses/:id/activities", teacher, handlers.Activity.CreateActivity)
		api.GET("/activities/:id", handlers.Activity.GetActivity)
		api.PATCH("/activities/:id", teacher, handlers.Activity.UpdateActivity)
		api.DELETE("/activities/:id", teacher, handlers.Activity.DeleteActivity)

		api.GET("/activities/:id/assessments", handlers.Assessment.ListAssessments)
		api.POST("/activities/:id/assessments", teacher, handlers.Assessment.CreateAssessment)
		api.GET("/assessments/:id", handlers.Assessment.GetAssessment)
		api.POST("/assessments/:id/cancel", teacher, handlers.Assessment.CancelAssessment)
		api.PUT("/assessments/:id/grades-visibility", teacher, handlers.Assessment.SetGradesVisibility)
	}

	// ─── 4. Peer Evaluation ────────────────────────────────────────────
	{
		api.GET("/assessments/:id/peers", student, handlers.Evaluation.GetPeers)
		api.POST("/assessments/:id/evaluations", student, limitEvaluations, handlers.Evaluation.SubmitEvaluations)
		api.PUT("/assessments/:id/evaluations", student, limitEvaluations, handlers.Evaluation.EditEvaluations)
	}

	// ─── 5. Grades ─────────────────────────────────────────────────────
	{
		api.GET("/assessments/:id/grades/me", student, handlers.Grade.MyGrade)
		api.GET("/assessments/:id/grades", teacher, handlers.Grade.CourseGrades)
		api.GET("/assessments/:id/grades/export", teacher, handlers.Grade.ExportGrades)
	}

	// ─── 6. System ─────────────────────────────────────────────────────
	if handlers.System != nil {
		api.GET("/system/metrics", teacher, handlers.System.SystemMetricsSSE)
	}

	return router
}
