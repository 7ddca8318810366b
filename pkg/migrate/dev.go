package migrate

import (
	"context"
	"fmt"

	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

// MaybeRunDev migrates both stores automatically when the app runs in dev
// mode with the feature flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, records, ledger *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	targets := []struct {
		name    string
		client  *db.Client
		dialect string
		dir     string
	}{
		{"records", records, dialectFor(cfg.RecordDB.Driver), RecordsDir},
		{"ledger", ledger, dialectFor(cfg.LedgerDB.Driver), LedgerDir},
	}

	for _, target := range targets {
		sqlDB, err := target.client.DB().DB()
		if err != nil {
			return fmt.Errorf("extracting %s sql.DB: %w", target.name, err)
		}

		tctx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "store": target.name, "dir": target.dir})
		logg.Info(tctx, "running Goose migrations (dev auto-run)")

		if err := Run(ctx, sqlDB, target.dialect, target.dir, "up"); err != nil {
			return fmt.Errorf("running goose up for %s: %w", target.name, err)
		}

		logg.Info(tctx, "Goose migrations completed")
	}
	return nil
}

func dialectFor(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}
