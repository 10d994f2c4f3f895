package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/maintplan/internal/cli"
	"github.com/alexanderramin/maintplan/internal/config"
	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", cfgPath, err)
	}
	calendar, err := cfg.WorkCalendar()
	if err != nil {
		return err
	}
	policy := cfg.SchedulerPolicy()

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	logger, err := config.NewLogger(cfg.Log, os.Stderr, interactive)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	observer := service.NewLogUseCaseObserver(logger)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	workOrderRepo := repository.NewSQLiteWorkOrderRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	reservationRepo := repository.NewSQLiteReservationRepo(database)
	stockRepo := repository.NewSQLiteStockRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Plans:     service.NewPlanService(planRepo, workOrderRepo, uow, observer),
		Schedule:  service.NewScheduleService(planRepo, workOrderRepo, taskRepo, stockRepo, policy, observer),
		Lifecycle: service.NewLifecycleService(planRepo, reservationRepo, uow, policy, observer),
		Stock:     service.NewStockService(stockRepo, observer),
		Import:    service.NewImportService(uow, calendar, observer),

		IsInteractive: interactive && isatty.IsTerminal(os.Stdin.Fd()),
	}

	logger.Debug("starting", "db", cfg.DBPath, "config", cfgPath, "interactive", app.IsInteractive)
	return cli.NewRootCmd(app).Execute()
}
