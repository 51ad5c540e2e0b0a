package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/coeval-backend/internal/cache"
	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/database"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/handler"
	"github.com/stemsi/coeval-backend/internal/logger"
	"github.com/stemsi/coeval-backend/internal/mailer"
	"github.com/stemsi/coeval-backend/internal/metrics"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/router"
	"github.com/stemsi/coeval-backend/internal/service"
	"github.com/stemsi/coeval-backend/internal/store"
	"github.com/stemsi/coeval-backend/internal/validator"
	"github.com/stemsi/coeval-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.StoreDriver).
		Msg("Starting Coeval Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// ─── Open Record Store ─────────────────────────────────────────────
	records, err := database.NewRecordStore(ctx, cfg, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()
	observed := store.NewObserved(records, m)

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(observed)
	categoryRepo := repository.NewCategoryRepository(observed)
	groupRepo := repository.NewGroupRepository(observed)
	activityRepo := repository.NewActivityRepository(observed)
	assessmentRepo := repository.NewAssessmentRepository(observed)
	evalRepo := repository.NewPeerEvaluationRepository(observed)

	// ─── Initialize Services ──────────────────────────────────────────
	ids := engine.UUIDGenerator{}
	partitioner := engine.NewPartitioner(ids, nil)
	invitations := worker.NewInvitationQueue(rdb)

	authService := service.NewAuthService(cfg)
	courseService := service.NewCourseService(courseRepo, cache.NewRedisCodeRegistry(rdb), invitations, ids, log)
	categoryService := service.NewCategoryService(courseRepo, categoryRepo, groupRepo, partitioner, ids, m, log)
	groupService := service.NewGroupService(courseRepo, categoryRepo, groupRepo, partitioner, log)
	activityService := service.NewActivityService(courseRepo, categoryRepo, activityRepo, ids, log)
	assessmentService := service.NewAssessmentService(activityService, assessmentRepo, ids, nil, log)
	evaluationService := service.NewEvaluationService(assessmentService, groupRepo, evalRepo, ids, nil, m, log)
	gradeService := service.NewGradeService(assessmentService, assessmentRepo, activityRepo, groupRepo, evalRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Course:     handler.NewCourseHandler(courseService, log),
		Category:   handler.NewCategoryHandler(categoryService, log),
		Group:      handler.NewGroupHandler(groupService, log),
		Activity:   handler.NewActivityHandler(activityService, log),
		Assessment: handler.NewAssessmentHandler(assessmentService, log),
		Evaluation: handler.NewEvaluationHandler(evaluationService, log),
		Grade:      handler.NewGradeHandler(gradeService, log),
		System:     handler.NewSystemHandler(rdb, records.Pool, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.AppName, cfg.MailFrom)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, invitation mails are only logged")
		mail = mailer.NewLogMailer(log)
	}
	invitationWorker := worker.NewInvitationWorker(rdb, mail, cfg.AppName, m, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		invitationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the invitation worker and let it drain the queue.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Invitation worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
