// GrossNet Worker — обрабатывает задания пакетной обработки.
//
// Worker:
//   - Получает задания из RabbitMQ (batches.submitted)
//   - Периодически проверяет PENDING задания в БД (polling fallback)
//   - Парсит Excel-файл и считает gross-to-net для каждой строки
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/GrossNet/internal/mq"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/taxcalc"
	"github.com/shaiso/GrossNet/internal/telemetry"
	"github.com/shaiso/GrossNet/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting grossnet-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Worker без БД не имеет смысла: задания хранятся в Postgres
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	batchStore := repo.NewBatchRepo(pool)

	// RabbitMQ опционален: без него работает только polling
	var mqConn *mq.Connection
	if mqURL := mq.URLFromEnv(); mqURL != "" {
		mqConn, err = mq.NewConnection(mqURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
			mqConn = nil
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
		}
	}

	w := worker.New(worker.Config{
		BatchStore: batchStore,
		Policy:     taxcalc.DefaultPolicy(),
		Conn:       mqConn,
		Logger:     logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	w.Stop()
	logger.Info("grossnet-worker stopped")
}
