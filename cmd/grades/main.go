package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/database"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/export"
	"github.com/stemsi/coeval-backend/internal/logger"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		assessmentID = flag.String("assessment", "", "Assessment id (required)")
		xlsxPath     = flag.String("xlsx", "", "Also write the table to this XLSX file")
	)
	flag.Parse()
	if *assessmentID == "" {
		fmt.Fprintln(os.Stderr, "Usage: grades -assessment <id> [-xlsx file]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.SetupWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ─── Open Record Store ─────────────────────────────────────────────
	records, err := database.NewRecordStore(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	courseRepo := repository.NewCourseRepository(records)
	categoryRepo := repository.NewCategoryRepository(records)
	activityRepo := repository.NewActivityRepository(records)
	assessmentRepo := repository.NewAssessmentRepository(records)
	groupRepo := repository.NewGroupRepository(records)
	evalRepo := repository.NewPeerEvaluationRepository(records)

	ids := engine.UUIDGenerator{}
	activityService := service.NewActivityService(courseRepo, categoryRepo, activityRepo, ids, log)
	assessmentService := service.NewAssessmentService(activityService, assessmentRepo, ids, nil, log)
	gradeService := service.NewGradeService(assessmentService, assessmentRepo, activityRepo, groupRepo, evalRepo, log)

	// ─── Compute ───────────────────────────────────────────────────────
	table, err := gradeService.Table(ctx, *assessmentID)
	if err != nil {
		log.Fatal().Err(err).Str("assessment_id", *assessmentID).Msg("Failed to compute grades")
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		err = renderTable(os.Stdout, table)
	} else {
		err = renderCSV(os.Stdout, table)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to print grades")
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create workbook file")
		}
		defer f.Close()
		if err := export.WriteGrades(f, table.Assessment, table.Scores(), nil); err != nil {
			log.Fatal().Err(err).Msg("Failed to write workbook")
		}
		fmt.Fprintf(os.Stderr, "Workbook written to %s\n", *xlsxPath)
	}
}
