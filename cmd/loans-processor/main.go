// cmd/loans-processor/main.go
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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loans-service/internal/common/config"
	"loans-service/internal/common/database"
	"loans-service/internal/common/logger"
	"loans-service/internal/common/observability"
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

	zapLog.Info("Starting loans processor...")

	obs := observability.New("loans-processor")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// --- Wire the decision pipeline ---
	records := store.NewPostgresStore(pg.DB, log)
	if err := records.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	statusCache := cache.NewRedisCache(rdb.Client, log)
	cachedStore := store.NewCachedStore(records, statusCache, cfg.Loans.CacheTTL(), log)

	threshold, err := decimal.NewFromString(cfg.Loans.ApprovalThreshold)
	if err != nil {
		zapLog.Fatal("invalid approval threshold", zap.Error(err), zap.String("value", cfg.Loans.ApprovalThreshold))
	}

	processor, err := pipeline.NewProcessor(cachedStore, threshold, log)
	if err != nil {
		zapLog.Fatal("processor setup failed", zap.Error(err))
	}

	consumer := messaging.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup, log)
	defer consumer.Close()

	processTimeout := time.Duration(cfg.Loans.ProcessTimeout) * time.Millisecond
	handler := func(msgCtx context.Context, payload []byte) error {
		start := time.Now()
		handleCtx, cancelHandle := context.WithTimeout(msgCtx, processTimeout)
		defer cancelHandle()

		err := processor.HandleMessage(handleCtx, payload)
		status := "ok"
		if err != nil {
			status = "error"
		}
		obs.RecordMessageProcessed(msgCtx, status)
		obs.RecordMessageDuration(msgCtx, time.Since(start), status)
		return err
	}

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

	// --- Consume until signalled ---
	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(ctx, handler)
	}()
	zapLog.Info("Consumer started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.ConsumerGroup),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping consumer...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			zapLog.Error("Consumer stopped with error", zap.Error(err))
		}
	}

	zapLog.Info("Loans processor stopped gracefully")
}
