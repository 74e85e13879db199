package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/studyblocks/internal/cli"
	"github.com/alexanderramin/studyblocks/internal/config"
	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/alexanderramin/studyblocks/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config: ~/.studyblocks/config.toml plus STUDYBLOCKS_* overrides
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	learnerCfg, err := cfg.LearnerConfig()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workItemRepo := repository.NewSQLiteWorkItemRepo(database)
	eventRepo := repository.NewSQLiteFixedEventRepo(database)
	blockRepo := repository.NewSQLiteBlockRepo(database)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(database)
	prefsRepo := repository.NewSQLitePreferencesRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	guard := service.NewPreferencesGuard()
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		WorkItems: service.NewWorkItemService(workItemRepo),
		Events:    service.NewEventService(eventRepo),
		Schedule:  service.NewScheduleService(workItemRepo, eventRepo, blockRepo, prefsRepo, uow, guard, observer),
		Feedback:  service.NewFeedbackService(blockRepo, feedbackRepo, observer),
		Learn:     service.NewLearnService(prefsRepo, uow, guard, learnerCfg, logger, observer),
		Plans:     service.NewPlanService(planRepo, uow, observer),
		Import:    service.NewImportService(uow, observer),
		Config:    cfg,
	}

	// Detect interactive terminal for the viewer and feedback form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
