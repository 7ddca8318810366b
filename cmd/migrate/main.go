package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/logger"
	"github.com/modelmart/modelmart-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	store := flag.String("store", "records", "target store: records|ledger")
	cmd := flag.String("cmd", "up", "migration command: up|down|status")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var (
		dbCfg config.DBConfig
		dir   string
	)
	switch *store {
	case "records":
		dbCfg = cfg.RecordDB
		dir = migrate.RecordsDir
	case "ledger":
		dbCfg = cfg.LedgerDB.AsDBConfig()
		dir = migrate.LedgerDir
	default:
		fmt.Fprintln(os.Stderr, "unknown -store value:", *store)
		os.Exit(1)
	}

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"store": *store,
		"cmd":   *cmd,
		"dir":   dir,
	})

	dbClient, err := db.New(context.Background(), *store, dbCfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, dialectFor(dbCfg.Driver), dir, *cmd); err != nil {
			fmt.Fprintf(os.Stderr, "goose %s failed: %v\n", *cmd, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func dialectFor(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
