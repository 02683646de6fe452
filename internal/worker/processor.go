package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/shaiso/GrossNet/internal/domain"
	"github.com/shaiso/GrossNet/internal/repo"
	"github.com/shaiso/GrossNet/internal/sheet"
	"github.com/shaiso/GrossNet/internal/taxcalc"
	"github.com/shaiso/GrossNet/internal/telemetry"
)

// Processor обрабатывает одно задание пакетной обработки.
type Processor struct {
	batchStore repo.BatchStore
	policy     taxcalc.Policy
	logger     *slog.Logger
}

// ProcessorConfig — конфигурация Processor.
type ProcessorConfig struct {
	BatchStore repo.BatchStore
	Policy     taxcalc.Policy
	Logger     *slog.Logger
}

// NewProcessor создаёт новый Processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		batchStore: cfg.BatchStore,
		policy:     cfg.Policy,
		logger:     logger,
	}
}

// ProcessJob обрабатывает задание от claim до записи результатов.
//
// Возвращает ErrJobNotPending, если задание уже взято или завершено,
// и ErrJobNotFound, если задание не существует.
func (p *Processor) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	// Атомарный claim: PENDING → RUNNING
	job, err := p.batchStore.MarkRunning(ctx, jobID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		if errors.Is(err, repo.ErrInvalidState) {
			return fmt.Errorf("%w: %s", ErrJobNotPending, jobID)
		}
		return fmt.Errorf("claim job: %w", err)
	}

	logger := telemetry.WithJobID(p.logger, job.ID.String())
	logger.Info("batch started", "file_name", job.FileName)

	inputs, err := sheet.Parse(job.FileData)
	if err != nil {
		// Ошибка уровня файла: задание FAILED, но это не ошибка
		// обработки — результат записан, сообщение можно ack-ать.
		logger.Warn("batch file unreadable", "error", err)
		return p.failJob(ctx, job, err.Error())
	}

	rows := make([]domain.BatchRow, len(inputs))
	errorRows := 0

	for i, in := range inputs {
		row := p.processRow(job.ID, in)
		if row.Status == domain.RowStatusError {
			errorRows++
		}
		rows[i] = row

		telemetry.BatchRowsTotal.WithLabelValues(string(row.Status)).Inc()
	}

	if err := p.batchStore.ReplaceRows(ctx, job.ID, rows); err != nil {
		return fmt.Errorf("replace rows: %w", err)
	}

	job.MarkSucceeded(len(rows), errorRows)
	if err := p.batchStore.Update(ctx, job); err != nil {
		return fmt.Errorf("update job to succeeded: %w", err)
	}

	telemetry.BatchJobsTotal.WithLabelValues(string(domain.BatchStatusSucceeded)).Inc()

	logger.Info("batch succeeded",
		"total_rows", len(rows),
		"error_rows", errorRows,
	)

	return nil
}

// failJob помечает задание FAILED с ошибкой уровня файла.
func (p *Processor) failJob(ctx context.Context, job *domain.BatchJob, msg string) error {
	job.MarkFailed(msg)
	if err := p.batchStore.Update(ctx, job); err != nil {
		return fmt.Errorf("update job to failed: %w", err)
	}

	telemetry.BatchJobsTotal.WithLabelValues(string(domain.BatchStatusFailed)).Inc()
	return nil
}

// processRow парсит ячейки одной строки и выполняет расчёт.
// Любая ошибка записывается в строку, не прерывая задание.
func (p *Processor) processRow(jobID uuid.UUID, in sheet.InputRow) domain.BatchRow {
	row := domain.BatchRow{
		JobID:         jobID,
		RowNum:        in.Num,
		GrossRaw:      in.Gross,
		DependentsRaw: in.Dependents,
		RegionRaw:     in.Region,
	}

	input, err := parseInput(in)
	if err == nil {
		err = taxcalc.ValidateInput(input)
	}
	if err != nil {
		row.Status = domain.RowStatusError
		row.Error = err.Error()
		return row
	}

	result, err := taxcalc.Calculate(p.policy, input)
	if err != nil {
		row.Status = domain.RowStatusError
		row.Error = err.Error()
		return row
	}

	row.Status = domain.RowStatusOK
	row.Result = &result
	return row
}

// parseInput типизирует сырые ячейки строки.
func parseInput(in sheet.InputRow) (domain.CalcInput, error) {
	gross, err := parseVND(in.Gross)
	if err != nil {
		return domain.CalcInput{}, fmt.Errorf("invalid %s: %q", sheet.ColumnGross, in.Gross)
	}

	dependents, err := parseWhole(in.Dependents)
	if err != nil {
		return domain.CalcInput{}, fmt.Errorf("invalid %s: %q", sheet.ColumnDependents, in.Dependents)
	}

	region, err := parseWhole(in.Region)
	if err != nil {
		return domain.CalcInput{}, fmt.Errorf("invalid %s: %q", sheet.ColumnRegion, in.Region)
	}

	return domain.CalcInput{
		GrossIncome: gross,
		Dependents:  dependents,
		Region:      region,
	}, nil
}

// parseVND парсит денежную ячейку. Excel может отдать значение в
// экспоненциальной записи или с дробной частью ("3.0E7", "30000000.0"),
// поэтому парсим как float и округляем до целых VND.
func parseVND(s string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return int64(math.Round(v)), nil
}

// parseWhole парсит целочисленную ячейку, допуская форму "1.0".
func parseWhole(s string) (int, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(v), nil
}
