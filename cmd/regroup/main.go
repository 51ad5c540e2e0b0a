package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stemsi/coeval-backend/internal/config"
	"github.com/stemsi/coeval-backend/internal/database"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/logger"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		categoryID = flag.String("category", "", "Category id (required)")
		yes        = flag.Bool("yes", false, "Apply without asking for confirmation")
	)
	flag.Parse()
	if *categoryID == "" {
		fmt.Fprintln(os.Stderr, "Usage: regroup -category <id> [-yes]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.SetupWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// ─── Open Record Store ─────────────────────────────────────────────
	records, err := database.NewRecordStore(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	ids := engine.UUIDGenerator{}
	categoryService := service.NewCategoryService(
		repository.NewCourseRepository(records),
		repository.NewCategoryRepository(records),
		repository.NewGroupRepository(records),
		engine.NewPartitioner(ids, nil),
		ids, nil, log,
	)

	// ─── Preview ───────────────────────────────────────────────────────
	category, plan, err := categoryService.Preview(ctx, *categoryID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to plan reorganization")
	}

	fmt.Printf("Category %q (%s), capacity %d\n", category.Name, mode(category.RandomGroups), category.Capacity())
	fmt.Printf("Plan: %s\n", plan.Describe())
	if plan.Empty() {
		fmt.Println("Nothing to do.")
		return
	}

	if !*yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Refusing to apply without a terminal; pass -yes")
			os.Exit(1)
		}
		if !confirm(os.Stdin, os.Stdout, "Apply this plan?") {
			fmt.Println("Aborted.")
			return
		}
	}

	// ─── Apply ─────────────────────────────────────────────────────────
	result, err := categoryService.Apply(ctx, category, plan, func(r engine.TaskResult) {
		printStep(os.Stdout, r, len(plan.Delete)+len(plan.Create)+len(plan.Update))
	})
	if err != nil {
		fmt.Printf("Stopped after %d completed steps.\n", result.Report.Completed())
		log.Fatal().Err(err).Msg("Reorganization interrupted")
	}

	if len(plan.Unassigned) > 0 {
		fmt.Printf("\n%d students left without a group:\n", len(plan.Unassigned))
		for _, id := range plan.Unassigned {
			fmt.Printf("  - %s\n", id)
		}
	}
	fmt.Println("Done.")
}

func mode(random bool) string {
	if random {
		return "random"
	}
	return "free"
}

// confirm asks a yes/no question; anything but y/yes/s/si is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

func printStep(w io.Writer, r engine.TaskResult, total int) {
	status := "ok"
	if !r.Done {
		status = "FAILED: " + r.Error
	}
	fmt.Fprintf(w, "[%d/%d] %-14s %s %s\n", r.Step, total, r.Op, r.EntityID, status)
}
