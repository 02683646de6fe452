package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/GrossNet/internal/repo"
)

// defaultRetentionDays — срок хранения завершённых заданий по умолчанию.
const defaultRetentionDays = 30

// Janitor удаляет завершённые задания пакетной обработки старше
// срока хранения.
type Janitor struct {
	batchStore repo.BatchStore
	retention  time.Duration
	logger     *slog.Logger
}

// JanitorConfig — конфигурация Janitor.
type JanitorConfig struct {
	BatchStore repo.BatchStore

	// RetentionDays — срок хранения в днях (default: 30).
	RetentionDays int

	Logger *slog.Logger
}

// NewJanitor создаёт новый Janitor.
func NewJanitor(cfg JanitorConfig) *Janitor {
	days := cfg.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Janitor{
		batchStore: cfg.BatchStore,
		retention:  time.Duration(days) * 24 * time.Hour,
		logger:     logger,
	}
}

// Tick выполняет один проход очистки.
//
// Удаляются только завершённые задания (SUCCEEDED/FAILED), чтобы
// зависшие PENDING задания оставались видимыми для диагностики.
func (j *Janitor) Tick(ctx context.Context) error {
	cutoff := time.Now().Add(-j.retention)

	deleted, err := j.batchStore.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete finished batches: %w", err)
	}

	if deleted > 0 {
		j.logger.Info("janitor tick completed",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}

	return nil
}
