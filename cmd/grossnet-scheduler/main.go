// GrossNet Scheduler — фоновая очистка хранилища.
//
// По расписанию CLEANUP_CRON (default: каждый день в 03:00) удаляет
// завершённые задания пакетной обработки старше RETENTION_DAYS.
// Несколько экземпляров координируются через pg_try_advisory_lock:
// очистку выполняет только лидер.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/scheduler"
	"github.com/shaiso/GrossNet/internal/telemetry"
)

const janitorLockKey int64 = 874001

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting grossnet-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	schedule, err := scheduler.CleanupSchedule()
	if err != nil {
		logger.Error("invalid CLEANUP_CRON", "error", err)
		os.Exit(1)
	}

	retentionDays := 0
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		retentionDays, err = strconv.Atoi(v)
		if err != nil || retentionDays <= 0 {
			logger.Error("invalid RETENTION_DAYS", "value", v)
			os.Exit(1)
		}
	}

	janitor := scheduler.NewJanitor(scheduler.JanitorConfig{
		BatchStore:    repo.NewBatchRepo(pool),
		RetentionDays: retentionDays,
		Logger:        logger,
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// janitor loop
	go func() {
		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", janitorLockKey)
			}
		}()

		timer := time.NewTimer(time.Until(schedule.Next(time.Now())))
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				timer.Reset(time.Until(schedule.Next(time.Now())))

				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", janitorLockKey).Scan(&ok); err != nil {
						logger.Error("advisory lock error", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				if err := janitor.Tick(ctx); err != nil {
					logger.Error("janitor tick failed", "error", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("grossnet-scheduler stopped")
}
