package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/coeval-backend/internal/cache"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/database"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/logger"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/service"
)

func main() {
	var (
		teacherID = flag.String("teacher", "teacher-1", "Teacher user id owning the course")
		name      = flag.String("name", "Curso de prueba", "Course name")
		students  = flag.Int("students", 12, "Number of students to enroll")
		capacity  = flag.Int("capacity", 4, "Max students per group of the seeded category (0 = free groups)")
		duration  = flag.Int("duration", 60, "Duration in minutes of the seeded assessment")
		tokens    = flag.Bool("tokens", true, "Print a bearer token per seeded user")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := database.NewRecordStore(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	courseRepo := repository.NewCourseRepository(records)
	categoryRepo := repository.NewCategoryRepository(records)
	groupRepo := repository.NewGroupRepository(records)
	activityRepo := repository.NewActivityRepository(records)
	assessmentRepo := repository.NewAssessmentRepository(records)

	ids := engine.UUIDGenerator{}
	courseService := service.NewCourseService(courseRepo, cache.NewMemoryCodeRegistry(), nil, ids, log)
	categoryService := service.NewCategoryService(courseRepo, categoryRepo, groupRepo, engine.NewPartitioner(ids, nil), ids, nil, log)
	activityService := service.NewActivityService(courseRepo, categoryRepo, activityRepo, ids, log)
	assessmentService := service.NewAssessmentService(activityService, assessmentRepo, ids, nil, log)
	authService := service.NewAuthService(cfg)

	teacher := model.Identity{UserID: model.UserID(*teacherID), Role: model.RoleTeacher, Name: "Profesor"}

	fmt.Printf("=== Seeding course %q with %d students ===\n", *name, *students)

	course, err := courseService.Create(ctx, teacher, model.CreateCourseRequest{Name: *name})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Created course %s (code %s)\n", course.ID, course.RegistrationCode)

	seeded := make([]model.Identity, 0, *students)
	for i := 0; i < *students; i++ {
		ident := model.Identity{
			UserID: model.UserID(fmt.Sprintf("student-%02d", i+1)),
			Role:   model.RoleStudent,
			Email:  fmt.Sprintf("student%02d@example.edu", i+1),
		}
		if _, err := courseService.Join(ctx, ident, course.RegistrationCode); err != nil {
			fmt.Printf("Error enrolling %s: %v\n", ident.UserID, err)
			continue
		}
		seeded = append(seeded, ident)
	}
	fmt.Printf("Enrolled %d/%d students\n", len(seeded), *students)

	req := model.CreateCategoryRequest{Name: "Proyecto final", RandomGroups: *capacity > 0}
	if *capacity > 0 {
		req.MaxStudentsPerGroup = capacity
	}
	result, err := categoryService.Create(ctx, teacher, course.ID, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create category")
	}
	fmt.Printf("Created category %s with %d groups\n", result.Category.ID, len(result.Groups))

	activity, err := activityService.Create(ctx, teacher, course.ID, model.CreateActivityRequest{
		CategoryID: result.Category.ID,
		Name:       "Entrega 1",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create activity")
	}
	assessment, err := assessmentService.Create(ctx, teacher, activity.ID, model.CreateAssessmentRequest{
		Title:           "Coevaluación Entrega 1",
		DurationMinutes: *duration,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create assessment")
	}
	fmt.Printf("Opened assessment %s (%s)\n", assessment.ID, assessment.RemainingLabel)

	if !*tokens {
		return
	}
	fmt.Println("\nTokens:")
	for _, ident := range append([]model.Identity{teacher}, seeded...) {
		token, err := authService.GenerateToken(ident)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to sign token")
		}
		fmt.Printf("%-12s %s\n", ident.UserID, token)
	}
}
