// GrossNet API — HTTP сервер расчёта gross-to-net.
//
// Зависимости опциональны:
//   - DATABASE_URL не задан — in-memory хранилище, задания пакетной
//     обработки выполняются в том же процессе
//   - RABBITMQ_URL не задан — задания подбирает polling worker-а
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/GrossNet/internal/api"
	"github.com/shaiso/GrossNet/internal/mq"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/taxcalc"
	"github.com/shaiso/GrossNet/internal/telemetry"
	"github.com/shaiso/GrossNet/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting grossnet-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	policy := taxcalc.DefaultPolicy()
	if err := policy.Validate(); err != nil {
		logger.Error("invalid tax policy", "error", err)
		os.Exit(1)
	}

	// Хранилище: Postgres, если DATABASE_URL задан, иначе in-memory
	var calcStore repo.CalculationStore
	var batchStore repo.BatchStore
	var hasDB bool

	pool, err := repo.NewPool(ctx)
	switch {
	case err == nil:
		defer pool.Close()

		if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}

		calcStore = repo.NewCalculationRepo(pool)
		batchStore = repo.NewBatchRepo(pool)
		hasDB = true
		logger.Info("connected to database")

	case errors.Is(err, repo.ErrNoDatabase):
		calcStore = repo.NewMemCalculationStore()
		batchStore = repo.NewMemBatchStore()
		logger.Warn("DATABASE_URL not set, using in-memory store")

	default:
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// RabbitMQ: только вместе с БД — с in-memory хранилищем задания
	// не видны отдельным worker-ам
	var publisher *mq.Publisher
	if hasDB {
		if mqURL := mq.URLFromEnv(); mqURL != "" {
			mqConn, err := mq.NewConnection(mqURL, logger)
			if err != nil {
				logger.Warn("RabbitMQ not available, batches will be picked up by polling", "error", err)
			} else {
				defer mqConn.Close()

				if err := mq.SetupTopology(mqConn); err != nil {
					logger.Warn("failed to setup topology", "error", err)
				}

				publisher = mq.NewPublisher(mqConn, logger)
				logger.Info("RabbitMQ connected")
			}
		}
	}

	// In-process обработка заданий, когда нет внешних worker-ов
	var processor api.BatchProcessor
	if !hasDB {
		processor = worker.NewProcessor(worker.ProcessorConfig{
			BatchStore: batchStore,
			Policy:     policy,
			Logger:     logger,
		})
	}

	handler := api.NewHandler(api.Config{
		CalcStore:  calcStore,
		BatchStore: batchStore,
		Publisher:  publisher,
		Processor:  processor,
		Policy:     policy,
		Logger:     logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8000"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	} else if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
