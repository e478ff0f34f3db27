// One-shot allowance runner for external schedulers (cron invoking the
// binary instead of the HTTP trigger).
package main

import (
	"context"
	"os"
	"time"

	"allowance-app-go/internal/config"
	"allowance-app-go/internal/db"
	allowancedomain "allowance-app-go/internal/domain/allowance"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	allowancerepo "allowance-app-go/internal/repository/postgres/allowance"
	ledgerrepo "allowance-app-go/internal/repository/postgres/ledger"
	"allowance-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv().With("component", "allowance-job")

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("job: load config failed", "err", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Allowance.Location)
	if err != nil {
		log.Critical("job: load timezone failed", "tz", cfg.Allowance.Location, "err", err)
		os.Exit(1)
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		log.Critical("job: db connect failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := dbConn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ledger := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	allowance := allowancedomain.NewService(allowancerepo.NewPostgres(dbConn), ledger, log, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := allowance.Run(ctx, time.Now().In(location))
	if err != nil {
		log.Critical("job: run aborted", "err", err)
		os.Exit(1)
	}

	log.Info("job: done", "day", summary.Day, "processed", summary.Processed, "failed", summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
