package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/db"
	"github.com/angelmondragon/bouquet-backend/pkg/instance"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/migrate"
)

const usage = "up|down|status|version|create|validate|catalog"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: "+usage)
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	exitOn(ctx, logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.ID("migrate"),
		"cmd":      *cmd,
		"dir":      *dir,
	})

	// create and validate only touch the filesystem
	switch *cmd {
	case "create":
		if strings.TrimSpace(*name) == "" {
			exitOn(ctx, logg, "create migration", errors.New("missing -name"))
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		exitOn(ctx, logg, "create migration", err)
		logg.Info(logg.WithField(ctx, "path", path), "migration.created")
		return
	case "validate":
		exitOn(ctx, logg, "validate migrations", migrate.ValidateDir(*dir))
		logg.Info(ctx, "migration.validated")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOn(ctx, logg, "connect database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "database.close_failed", err)
		}
	}()

	sqlDB, err := dbClient.SQL()
	exitOn(ctx, logg, "open sql handle", err)

	switch *cmd {
	case "up", "down", "status":
		exitOn(ctx, logg, "goose "+*cmd, migrate.Run(ctx, sqlDB, *dir, *cmd))
	case "version":
		if *version == "" {
			exitOn(ctx, logg, "migrate to version", errors.New("missing -version"))
		}
		exitOn(ctx, logg, "migrate to version", migrate.MigrateToVersion(ctx, sqlDB, *dir, *version))
	case "catalog":
	default:
		exitOn(ctx, logg, "parse flags", errors.New("unknown -cmd value "+*cmd+", want "+usage))
	}
	if *cmd != "catalog" {
		logg.Info(ctx, "migration.done")
	}

	if *cmd != "down" {
		reportCatalog(ctx, logg, sqlDB)
	}
}

// reportCatalog logs how many products each listing will show. An empty
// flower and foliage catalog means every order will be rejected.
func reportCatalog(ctx context.Context, logg *logger.Logger, sqlDB *sql.DB) {
	report, err := migrate.InspectCatalog(ctx, sqlDB)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog.inspect_failed")
		return
	}
	fields := make(map[string]any, len(report)+1)
	for category, count := range report {
		fields["products_"+category.String()] = count
	}
	if missing := report.Missing(); len(missing) > 0 {
		fields["missing_categories"] = missing
	}
	ctx = logg.WithFields(ctx, fields)
	if !report.Orderable() {
		logg.Warn(ctx, "catalog.not_orderable")
		return
	}
	logg.Info(ctx, "catalog.ready")
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "step", step), "migrate.failed", err)
	os.Exit(1)
}
