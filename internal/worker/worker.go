package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/GrossNet/internal/mq"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/taxcalc"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 10
	defaultPrefetch     = 2
)

// Worker обрабатывает задания пакетной обработки.
//
// Получает задания из очереди RabbitMQ (event-driven) и периодически
// проверяет PENDING задания в БД (polling fallback). Без подключения
// к RabbitMQ (Conn == nil) работает только polling.
type Worker struct {
	processor  *Processor
	batchStore repo.BatchStore

	// MQ; nil — только polling
	conn     *mq.Connection
	consumer *mq.Consumer

	pollInterval time.Duration
	batchSize    int

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Worker.
type Config struct {
	BatchStore repo.BatchStore
	Policy     taxcalc.Policy

	// Conn — подключение к RabbitMQ. Nil — polling-only режим.
	Conn *mq.Connection

	// PollInterval — интервал polling (default: 10s).
	PollInterval time.Duration

	// BatchSize — количество заданий за один poll (default: 10).
	BatchSize int

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		processor: NewProcessor(ProcessorConfig{
			BatchStore: cfg.BatchStore,
			Policy:     cfg.Policy,
			Logger:     logger,
		}),
		batchStore:   cfg.BatchStore,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Processor возвращает обработчик заданий для прямого использования.
func (w *Worker) Processor() *Processor {
	return w.processor
}

// Start запускает Worker: consumer (если есть MQ) и polling горутину.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
		"mq", w.conn != nil,
	)

	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueBatchesSubmitted),
			Handler:  w.handleBatchSubmitted,
			Prefetch: defaultPrefetch,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("batch consumer error", "error", err)
			}
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и ждёт завершения горутин.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// handleBatchSubmitted обрабатывает событие batch.submitted из очереди.
func (w *Worker) handleBatchSubmitted(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.BatchSubmittedPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse batch.submitted payload", "error", err)
		return err
	}

	if err := w.processor.ProcessJob(ctx, payload.JobID); err != nil {
		// Ожидаемые ситуации — не возвращаем ошибку (ack)
		if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrJobNotPending) {
			w.logger.Debug("batch not processed", "job_id", payload.JobID, "reason", err)
			return nil
		}
		w.logger.Error("failed to process batch", "job_id", payload.JobID, "error", err)
		return err
	}

	return nil
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем задания,
	// созданные пока worker был выключен)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (w *Worker) poll(ctx context.Context) {
	ids, err := w.batchStore.ListPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list pending batches", "error", err)
		return
	}

	if len(ids) == 0 {
		return
	}

	w.logger.Debug("poll found pending batches", "count", len(ids))

	for _, id := range ids {
		if err := w.processor.ProcessJob(ctx, id); err != nil {
			// ErrJobNotPending — задание успел взять другой worker
			if errors.Is(err, ErrJobNotPending) {
				continue
			}
			w.logger.Error("failed to process batch from poll",
				"job_id", id,
				"error", err,
			)
		}
	}
}
