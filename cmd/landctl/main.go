package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	budgetapp "github.com/landscape/backend/internal/application/budget"
	gisapp "github.com/landscape/backend/internal/application/gis"
	landuseapp "github.com/landscape/backend/internal/application/landuse"
	"github.com/landscape/backend/internal/infrastructure/cache"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/landscape/backend/internal/infrastructure/gis"
	"github.com/landscape/backend/internal/infrastructure/logger"
	"github.com/landscape/backend/internal/infrastructure/persistence"
	"github.com/landscape/backend/internal/infrastructure/report"
	"github.com/landscape/backend/internal/interfaces/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Operator output goes to stdout; logs stay quiet unless asked for
	log := logger.New(logger.Config{Level: "warn", Format: "console", Output: "stderr"})
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	backend := cache.NewBackend(ctx, cfg.Redis, log)
	defer backend.Close()

	exporters, err := report.NewExporters(cfg.Report, log)
	if err != nil {
		return err
	}
	defer exporters.Close()

	parcelSource, err := gis.NewArcGISClient(cfg.GIS, backend.Cache, log)
	if err != nil {
		return err
	}

	projectRepo := persistence.NewGormProjectRepository(db.DB)
	categoryRepo := persistence.NewGormBudgetCategoryRepository(db.DB)

	app := &cli.App{
		LandUse: landuseapp.NewLandUseService(
			persistence.NewGormTaxonomyRepository(db.DB),
			persistence.NewGormMappingRepository(db.DB),
			log,
		),
		Templates: budgetapp.NewTemplateService(budgetapp.TemplateServiceDeps{
			Projects:   projectRepo,
			Templates:  persistence.NewGormBudgetTemplateRepository(db.DB),
			Categories: categoryRepo,
			Locker:     backend.Locker,
			Logger:     log,
		}),
		Budgets: budgetapp.NewBudgetService(budgetapp.BudgetServiceDeps{
			Projects:   projectRepo,
			Phases:     persistence.NewGormPhaseRepository(db.DB),
			Categories: categoryRepo,
			Items:      persistence.NewGormBudgetItemRepository(db.DB),
			Exporters:  exporters.ByFormat(),
			Logger:     log,
		}),
		Parcels: gisapp.NewGISService(parcelSource),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
