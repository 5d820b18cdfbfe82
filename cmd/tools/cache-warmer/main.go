// cmd/tools/cache-warmer/main.go

// One-shot tool that repopulates the status cache from the record store,
// for cold starts after a cache flush or failover.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"loans-service/internal/common/config"
	"loans-service/internal/common/database"
	"loans-service/internal/common/logger"
	"loans-service/internal/loans/cache"
	"loans-service/internal/loans/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis failed", zap.Error(err))
	}
	defer rdb.Close()

	records := store.NewPostgresStore(pg.DB, log)
	statusCache := cache.NewRedisCache(rdb.Client, log)
	ttl := cfg.Loans.CacheTTL()

	applications, err := records.List(ctx)
	if err != nil {
		zapLog.Fatal("listing applications failed", zap.Error(err))
	}

	warmed := 0
	for _, application := range applications {
		if err := statusCache.Set(ctx, application, ttl); err != nil {
			zapLog.Warn("cache set failed, skipping",
				zap.String("applicantId", application.ApplicantID),
				zap.Error(err),
			)
			continue
		}
		warmed++
	}

	zapLog.Info("Cache warmed",
		zap.Int("records", len(applications)),
		zap.Int("warmed", warmed),
	)
}
