package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/mq"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/taxcalc"
)

// BatchProcessor обрабатывает задание пакетной обработки синхронно.
//
// Используется как fallback, когда RabbitMQ не настроен и хранилище
// in-memory: задание обрабатывается в том же процессе, что и API.
type BatchProcessor interface {
	ProcessJob(ctx context.Context, jobID uuid.UUID) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	calcStore  repo.CalculationStore
	batchStore repo.BatchStore
	publisher  *mq.Publisher
	processor  BatchProcessor
	policy     taxcalc.Policy
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	CalcStore  repo.CalculationStore
	BatchStore repo.BatchStore

	// Publisher — nil, если RabbitMQ не настроен.
	Publisher *mq.Publisher

	// Processor — in-process обработчик заданий. Используется только
	// когда Publisher == nil.
	Processor BatchProcessor

	Policy taxcalc.Policy
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		calcStore:  cfg.CalcStore,
		batchStore: cfg.BatchStore,
		publisher:  cfg.Publisher,
		processor:  cfg.Processor,
		policy:     cfg.Policy,
		logger:     cfg.Logger,
	}
}
