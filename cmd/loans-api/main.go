// cmd/loans-api/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loans-service/internal/common/config"
	"loans-service/internal/common/database"
	"loans-service/internal/common/logger"
	"loans-service/internal/httpapi"
	"loans-service/internal/loans/cache"
	"loans-service/internal/loans/messaging"
	"loans-service/internal/loans/pipeline"
	"loans-service/internal/loans/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loans API...")

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the submit/query pipeline ---
	records := store.NewPostgresStore(pg.DB, log)
	if err := records.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	statusCache := cache.NewRedisCache(rdb.Client, log)
	cachedStore := store.NewCachedStore(records, statusCache, cfg.Loans.CacheTTL(), log)

	publisher := messaging.NewKafkaPublisher(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.ClientID,
		time.Duration(cfg.Kafka.WriteTimeout)*time.Millisecond,
		log,
	)
	defer publisher.Close()

	submitter := pipeline.NewSubmitter(cachedStore, publisher, log)
	query := pipeline.NewStatusQuery(cachedStore, log)

	server := httpapi.NewServer(submitter, query, log)

	// --- Health & Metrics Server ---
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.HTTP.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		zapLog.Info("API server listening", zap.String("addr", addr))
		if err := server.Listen(addr); err != nil {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping API...")

	if err := server.Shutdown(); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Loans API stopped gracefully")
}
